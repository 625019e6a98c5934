package linetree

import "chess_repertoire/internal/domain/repertoire"

type Stats struct {
	Lines          int  `json:"lines"`
	Leaves         int  `json:"leaves"`
	MaxPly         int  `json:"max_ply"`
	Unfinished     int  `json:"unfinished"`
	Transpositions int  `json:"transpositions"`
	Shared         int  `json:"shared"`
	Truncated      bool `json:"truncated"`
}

func (t *Tree) Stats() Stats {
	var s Stats
	if t == nil {
		return s
	}
	s.Truncated = t.Truncated
	Walk(t.Root, func(line *repertoire.Line) bool {
		if line == t.Root {
			return true
		}
		s.Lines++
		if len(line.Children) == 0 {
			s.Leaves++
		}
		if end := line.EndPly(); end > s.MaxPly {
			s.MaxPly = end
		}
		if line.Unfinished {
			s.Unfinished++
		}
		if line.Transposition != nil {
			s.Transpositions++
		}
		if line.Flags.IsShared {
			s.Shared++
		}
		return true
	})
	return s
}

// Leaves returns the lines without children in document order.
func (t *Tree) Leaves() []*repertoire.Line {
	if t == nil {
		return nil
	}
	var leaves []*repertoire.Line
	Walk(t.Root, func(line *repertoire.Line) bool {
		if line != t.Root && len(line.Children) == 0 {
			leaves = append(leaves, line)
		}
		return true
	})
	return leaves
}
