package linetree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chess_repertoire/internal/domain/repertoire"
)

// key builds a full FEN-like state string; the graph stores its sanitized form.
func key(name string, side repertoire.Color) string {
	return name + " " + string(side) + " KQkq - 0 1"
}

type edge struct {
	from, san, to string
}

// buildGraph adds edges in order. The side to move is read from the
// position name suffix so fixtures stay short: "P1.b" is Black to move.
func buildGraph(t *testing.T, color repertoire.Color, start string, edges []edge) *repertoire.Graph {
	t.Helper()
	g := repertoire.NewGraph(fenOf(start), color)
	for _, e := range edges {
		mover := sideOf(e.from)
		ok := g.AddMove(fenOf(e.from), &repertoire.Move{
			Notation:             e.san,
			Color:                mover,
			ResultingPositionKey: fenOf(e.to),
		})
		require.True(t, ok, "duplicate edge %v", e)
	}
	return g
}

func sideOf(name string) repertoire.Color {
	if len(name) > 2 && name[len(name)-2:] == ".b" {
		return repertoire.ColorBlack
	}
	return repertoire.ColorWhite
}

func fenOf(name string) string {
	return key(name, sideOf(name))
}

func keyOf(name string) string {
	return repertoire.SanitizeKey(fenOf(name))
}

// transpositionGraph: 1. d4 d5 2. e4 e5 and 1. d4 e5 2. e4 d5 reach the same position.
func transpositionGraph(t *testing.T) *repertoire.Graph {
	return buildGraph(t, repertoire.ColorWhite, "P0.w", []edge{
		{"P0.w", "d4", "P1.b"},
		{"P1.b", "d5", "P2a.w"},
		{"P1.b", "e5", "P2b.w"},
		{"P2a.w", "e4", "P3a.b"},
		{"P2b.w", "e4", "P3b.b"},
		{"P3a.b", "e5", "Ptrans.w"},
		{"P3b.b", "d5", "Ptrans.w"},
	})
}

func checkInvariants(t *testing.T, tree *Tree) {
	t.Helper()
	Walk(tree.Root, func(line *repertoire.Line) bool {
		require.Equal(t, line.Notation, line.ID)
		for _, child := range line.Children {
			require.Equal(t, line.Depth+len(line.MoveSequence), child.Depth, "depth of %q", child.Notation)
		}
		if len(line.Children) > 0 {
			require.False(t, line.Unfinished, "line with children %q", line.Notation)
		}
		if line.Transposition != nil {
			require.False(t, line.Unfinished)
		}
		return true
	})
	shared := make(map[*repertoire.Line]bool)
	for k, el := range tree.Transpositions {
		if el.UsedIn != nil {
			require.True(t, el.Line.Flags.IsShared, "key %s", k)
			shared[el.Line] = true
		}
		if len(el.Line.MoveSequence) > 0 {
			require.GreaterOrEqual(t, el.MoveIndex, 0)
			require.Less(t, el.MoveIndex, len(el.Line.MoveSequence))
		}
		for _, ref := range el.UsedIn {
			require.GreaterOrEqual(t, ref.MoveIndex, 0)
			require.Less(t, ref.MoveIndex, len(ref.Line.MoveSequence))
		}
	}
	Walk(tree.Root, func(line *repertoire.Line) bool {
		require.Equal(t, shared[line], line.Flags.IsShared, "shared flag of %q", line.Notation)
		return true
	})
}
