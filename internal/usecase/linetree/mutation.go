package linetree

import "chess_repertoire/internal/domain/repertoire"

// AppendMoves extends line with moves and keeps Notation and ID in sync.
// Flags are left alone.
func AppendMoves(moves []*repertoire.Move, line *repertoire.Line) {
	if line == nil || len(moves) == 0 {
		return
	}
	rendered := RenderMoves(moves, line.EndPly())
	line.Notation = joinNotation(line.Notation, rendered)
	line.ID = line.Notation
	line.MoveSequence = append(line.MoveSequence, moves...)
}

// FindLineWithMove reports the line holding move itself. Only when no line
// holds that pointer does it fall back to the first equal move in document
// order.
func FindLineWithMove(root *repertoire.Line, move *repertoire.Move) *Location {
	if root == nil || move == nil {
		return nil
	}
	if loc := findMove(root, func(m *repertoire.Move) bool { return m == move }); loc != nil {
		return loc
	}
	return findMove(root, func(m *repertoire.Move) bool { return m != nil && *m == *move })
}

func findMove(parent *repertoire.Line, match func(*repertoire.Move) bool) *Location {
	for _, child := range parent.Children {
		for i, m := range child.MoveSequence {
			if match(m) {
				return &Location{CurrentLine: child, ParentLine: parent, MoveIndex: i}
			}
		}
		if loc := findMove(child, match); loc != nil {
			return loc
		}
	}
	return nil
}
