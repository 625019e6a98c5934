package linetree

import (
	"strings"

	"chess_repertoire/internal/domain/repertoire"
)

type Location struct {
	CurrentLine *repertoire.Line
	ParentLine  *repertoire.Line
	MoveIndex   int
}

// Locate finds the line holding the move that arrives at key, searching only
// branches whose notation agrees with prefix. The caller may be mid-line, so
// the prefix test runs both ways.
func Locate(root *repertoire.Line, prefix, key string) *Location {
	if root == nil {
		return nil
	}
	key = repertoire.SanitizeKey(key)
	for _, child := range root.Children {
		if !strings.HasPrefix(prefix, child.Notation) && !strings.HasPrefix(child.Notation, prefix) {
			continue
		}
		if i := FindMoveIndex(child, key); i >= 0 {
			return &Location{CurrentLine: child, ParentLine: root, MoveIndex: i}
		}
		if loc := Locate(child, prefix, key); loc != nil {
			return loc
		}
	}
	return nil
}

func FindMoveIndex(line *repertoire.Line, key string) int {
	if line == nil || len(line.MoveSequence) == 0 {
		return -1
	}
	key = repertoire.SanitizeKey(key)
	for i, m := range line.MoveSequence {
		if repertoire.SanitizeKey(m.ResultingPositionKey) == key {
			return i
		}
	}
	return -1
}
