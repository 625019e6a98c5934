package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graphYAML = `starting_position_key: "start w KQkq - 0 1"
color: w
positions:
  "start w KQkq - 0 1":
    moves:
      - notation: e4
        resulting_position_key: "e4 b KQkq e3 0 1"
  "e4 b KQkq e3 0 1":
    moves:
      - notation: e5
        resulting_position_key: "e4e5 w KQkq e6 0 2"
      - notation: c5
        resulting_position_key: "e4c5 w KQkq c6 0 2"
`

const openingsYAML = `"1. e4 c5": Sicilian Defence
"1. e4": King's Pawn Game
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "linetree", rootCmd.Use)
	assert.True(t, rootCmd.HasSubCommands())
	for _, name := range []string{"tree", "locate", "pgn", "pdf"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestLoadGraph(t *testing.T) {
	g, err := loadGraph(writeFile(t, "graph.yaml", graphYAML))
	require.NoError(t, err)
	assert.Equal(t, "start w KQkq", g.StartingPositionKey)
	assert.Len(t, g.Positions, 2)

	_, err = loadGraph(writeFile(t, "graph.json", `{"color":"w"}`))
	assert.Error(t, err)

	_, err = loadGraph(writeFile(t, "graph.json", `{"starting_position_key":"s w -","color":"x"}`))
	assert.Error(t, err)
}

func TestPGNCommand(t *testing.T) {
	graph := writeFile(t, "graph.yml", graphYAML)

	out, err := run(t, "pgn", graph)
	require.NoError(t, err)
	assert.Equal(t, "1. e4 e5 *\n\n1. e4 c5 *\n", out)
}

func TestTreeCommand(t *testing.T) {
	graph := writeFile(t, "graph.yaml", graphYAML)
	openings := writeFile(t, "openings.yaml", openingsYAML)

	out, err := run(t, "tree", graph, "--openings", openings)
	require.NoError(t, err)
	assert.Contains(t, out, "1. e4  [King's Pawn Game]")
	assert.Contains(t, out, "  1. e4 c5  [Sicilian Defence, unfinished]")
	assert.Contains(t, out, "3 lines, 2 leaves, 0 transpositions, 2 unfinished")
	openingsPath = ""
}

func TestLocateCommand(t *testing.T) {
	graph := writeFile(t, "graph.yaml", graphYAML)

	out, err := run(t, "locate", graph, "e4c5 w KQkq", "1. e4 c5")
	require.NoError(t, err)
	assert.Contains(t, out, `"parent_id": "1. e4"`)
	assert.Contains(t, out, `"truncated_notation": "1. e4 c5"`)

	_, err = run(t, "locate", graph, "nowhere w -")
	assert.Error(t, err)
}
