package linetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chess_repertoire/internal/domain/repertoire"
)

func TestLocate(t *testing.T) {
	tree := Compile(transpositionGraph(t), "", Options{})
	d4 := tree.Root.Children[0]
	d5, e5 := d4.Children[0], d4.Children[1]

	tests := []struct {
		name       string
		prefix     string
		key        string
		wantLine   *repertoire.Line
		wantParent *repertoire.Line
		wantIndex  int
	}{
		{"transposed_branch", "1. d4 e5 2. e4 d5", fenOf("Ptrans.w"), e5, d4, 2},
		{"canonical_branch", "1. d4 d5 2. e4 e5", fenOf("Ptrans.w"), d5, d4, 2},
		{"mid_line_prefix", "1. d4 d5", fenOf("P3a.b"), d5, d4, 1},
		{"first_line", "1. d4", fenOf("P1.b"), d4, tree.Root, 0},
		{"sanitized_key", "1. d4 e5", keyOf("P2b.w"), e5, d4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := Locate(tree.Root, tt.prefix, tt.key)
			require.NotNil(t, loc)
			assert.Same(t, tt.wantLine, loc.CurrentLine)
			assert.Same(t, tt.wantParent, loc.ParentLine)
			assert.Equal(t, tt.wantIndex, loc.MoveIndex)
		})
	}
}

func TestLocate_Misses(t *testing.T) {
	tree := Compile(transpositionGraph(t), "", Options{})

	assert.Nil(t, Locate(nil, "1. d4", fenOf("P1.b")))
	assert.Nil(t, Locate(tree.Root, "1. e4", fenOf("P1.b")))
	assert.Nil(t, Locate(tree.Root, "1. d4 d5", fenOf("P3b.b")))
	assert.Nil(t, Locate(tree.Root, "1. d4", fenOf("Unknown.w")))
}

func TestFindMoveIndex(t *testing.T) {
	tree := Compile(transpositionGraph(t), "", Options{})
	d5 := tree.Root.Children[0].Children[0]

	assert.Equal(t, 0, FindMoveIndex(d5, fenOf("P2a.w")))
	assert.Equal(t, 2, FindMoveIndex(d5, keyOf("Ptrans.w")))
	assert.Equal(t, -1, FindMoveIndex(d5, fenOf("P1.b")))
	assert.Equal(t, -1, FindMoveIndex(tree.Root, fenOf("P1.b")))
	assert.Equal(t, -1, FindMoveIndex(nil, fenOf("P1.b")))
}
