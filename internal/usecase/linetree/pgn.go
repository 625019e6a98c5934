package linetree

import (
	"fmt"
	"regexp"
	"strings"

	"chess_repertoire/internal/domain/repertoire"
)

var moveNumberToken = regexp.MustCompile(`^\d+\.+$`)

// SeparatorFor returns the text placed before the move played at ply.
// White moves get a move number, Black moves a single space.
func SeparatorFor(ply int, acc string) string {
	sep := " "
	if ply%2 == 0 {
		sep = fmt.Sprintf(" %d. ", ply/2+1)
	}
	if acc == "" {
		sep = strings.TrimPrefix(sep, " ")
	}
	return sep
}

// RenderMoves builds movetext such as "1. e4 e5 2. Nf3" for moves starting
// at startPly.
func RenderMoves(moves []*repertoire.Move, startPly int) string {
	var builder strings.Builder
	for i, m := range moves {
		if m == nil {
			continue
		}
		builder.WriteString(SeparatorFor(startPly+i, builder.String()))
		builder.WriteString(m.Notation)
	}
	return builder.String()
}

// TruncateNotationAt cuts line.Notation right after the move at moveIndex of
// line.MoveSequence. Moves inherited from parent lines are counted through
// line.Depth.
func TruncateNotationAt(line *repertoire.Line, moveIndex int) string {
	if line == nil || moveIndex < 0 {
		return ""
	}
	if moveIndex >= len(line.MoveSequence)-1 {
		return line.Notation
	}

	target := line.Depth + moveIndex + 1
	seen := 0
	notation := line.Notation
	i := 0
	for i < len(notation) {
		for i < len(notation) && isSpace(notation[i]) {
			i++
		}
		start := i
		for i < len(notation) && !isSpace(notation[i]) {
			i++
		}
		if start == i {
			break
		}
		if moveNumberToken.MatchString(notation[start:i]) {
			continue
		}
		seen++
		if seen == target {
			return notation[:i]
		}
	}
	return notation
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// joinNotation glues movetext fragments and drops the double and leading
// spaces the concatenation can leave behind.
func joinNotation(head, tail string) string {
	joined := head + " " + tail
	for strings.Contains(joined, "  ") {
		joined = strings.ReplaceAll(joined, "  ", " ")
	}
	return strings.TrimSpace(joined)
}
