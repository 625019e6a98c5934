package repertoire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{startFEN, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq"},
		{"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq"},
		{"8/8/8/8/8/8/8/8 w -", "8/8/8/8/8/8/8/8 w -"},
		{"  8/8/8/8/8/8/8/8   b  -  - 12 40", "8/8/8/8/8/8/8/8 b -"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeKey(tt.in))
		assert.Equal(t, tt.want, SanitizeKey(SanitizeKey(tt.in)))
	}
}

func TestGraph_AddMove(t *testing.T) {
	g := NewGraph(startFEN, ColorWhite)
	after := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"

	ok := g.AddMove(startFEN, &Move{From: "e2", To: "e4", Notation: "e4", Color: ColorWhite, ResultingPositionKey: after})
	require.True(t, ok)
	assert.False(t, g.AddMove(startFEN, &Move{Notation: "e4", ResultingPositionKey: after}))

	p, ok := g.Position(startFEN)
	require.True(t, ok)
	m, ok := p.Move("e4")
	require.True(t, ok)
	assert.Equal(t, SanitizeKey(after), m.ResultingPositionKey)

	dest, ok := g.Position(after)
	require.True(t, ok)
	assert.Empty(t, dest.Moves)

	assert.True(t, p.RemoveMove("e4"))
	assert.False(t, p.RemoveMove("e4"))
	assert.Empty(t, p.Moves)
}

func TestGraph_Digest(t *testing.T) {
	build := func(order []string) *Graph {
		g := NewGraph(startFEN, ColorBlack)
		for _, san := range order {
			g.AddMove(san+" w -", &Move{Notation: san, ResultingPositionKey: san + "x b -"})
		}
		return g
	}
	a := build([]string{"a", "b", "c"})
	b := build([]string{"c", "a", "b"})
	assert.Equal(t, a.Digest(), b.Digest())

	b.AddMove("a w -", &Move{Notation: "z", ResultingPositionKey: "q b -"})
	assert.NotEqual(t, a.Digest(), b.Digest())
	assert.Len(t, a.Digest(), 64)
}

func TestGraph_DigestCoversMoveFields(t *testing.T) {
	build := func(m Move) *Graph {
		g := NewGraph(startFEN, ColorWhite)
		g.AddMove(startFEN, &m)
		return g
	}
	base := Move{Notation: "e4", ResultingPositionKey: "e4 b KQkq", Color: ColorWhite, From: "e2", To: "e4"}
	digest := build(base).Digest()
	assert.Equal(t, digest, build(base).Digest())

	tests := []struct {
		name   string
		change func(m *Move)
	}{
		{"color", func(m *Move) { m.Color = ColorBlack }},
		{"from", func(m *Move) { m.From = "e3" }},
		{"to", func(m *Move) { m.To = "e5" }},
		{"flags", func(m *Move) { m.Flags = "b" }},
		{"captured", func(m *Move) { m.Captured = "p" }},
		{"promotion", func(m *Move) { m.Promotion = "q" }},
		{"shifted fields", func(m *Move) { m.From, m.To = "e2e4", "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base
			tt.change(&m)
			assert.NotEqual(t, digest, build(m).Digest())
		})
	}
}

func TestColor(t *testing.T) {
	assert.True(t, ColorWhite.Valid())
	assert.False(t, Color("x").Valid())
	assert.Equal(t, ColorBlack, ColorWhite.Opponent())
	assert.Equal(t, ColorWhite, ColorBlack.Opponent())
}

func TestGraph_Prune(t *testing.T) {
	g := NewGraph("A w -", ColorWhite)
	g.AddMove("A w -", &Move{Notation: "e4", ResultingPositionKey: "B b -"})
	g.AddMove("B b -", &Move{Notation: "e5", ResultingPositionKey: "C w -"})
	g.AddMove("B b -", &Move{Notation: "c5", ResultingPositionKey: "D w -"})
	g.AddMove("D w -", &Move{Notation: "Nf3", ResultingPositionKey: "E b -"})
	assert.Equal(t, 0, g.Prune())

	p, _ := g.Position("B b -")
	require.True(t, p.RemoveMove("c5"))
	assert.Equal(t, 2, g.Prune())
	assert.Len(t, g.Positions, 3)

	clone := g.Clone()
	assert.Equal(t, g.Digest(), clone.Digest())
	clone.Positions["A w -"].Moves[0].Notation = "d4"
	assert.Equal(t, "e4", g.Positions["A w -"].Moves[0].Notation)
}

func TestGraph_Normalize(t *testing.T) {
	g := &Graph{
		StartingPositionKey: "s w KQkq - 0 1",
		Positions: map[string]*Position{
			"s w KQkq - 0 1": {Moves: []*Move{{Notation: "e4", ResultingPositionKey: "a b KQkq e3 0 1"}}},
			"s w KQkq - 5 9": {Moves: []*Move{{Notation: "e4", ResultingPositionKey: "x b -"}, {Notation: "d4", ResultingPositionKey: "b b KQkq"}}},
			"a b KQkq e3 0 1": nil,
		},
	}
	g.Normalize()

	assert.Equal(t, "s w KQkq", g.StartingPositionKey)
	require.Len(t, g.Positions, 2)
	start, ok := g.Position("s w KQkq")
	require.True(t, ok)
	require.Len(t, start.Moves, 2)
	e4, ok := start.Move("e4")
	require.True(t, ok)
	assert.Equal(t, "a b KQkq", e4.ResultingPositionKey)
	assert.Equal(t, "e4", start.Moves[0].Notation)
	assert.Equal(t, "d4", start.Moves[1].Notation)
	_, ok = g.Position("a b KQkq")
	assert.True(t, ok)
}

func TestGraph_NormalizeFillsColor(t *testing.T) {
	g := &Graph{
		StartingPositionKey: "s b -",
		Positions: map[string]*Position{
			"s b - - 0 1": {Moves: []*Move{{Notation: "e5", ResultingPositionKey: "a w -"}}},
		},
	}
	g.Normalize()

	p, ok := g.Position("s b -")
	require.True(t, ok)
	assert.Equal(t, ColorBlack, p.Moves[0].Color)
}
