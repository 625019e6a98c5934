package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"chess_repertoire/internal/domain/repertoire"
	"chess_repertoire/internal/usecase/linetree"
)

var (
	openingsPath string
	maxDepth     int
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "linetree",
	Short: "Compile repertoire position graphs into PGN line trees",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&openingsPath, "openings", "", "YAML file mapping move prefixes to opening names")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", linetree.DefaultMaxDepth, "Recursion limit of the compiler")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log compile details to stderr")
}

func newLogger() *zap.SugaredLogger {
	if !verbose {
		return zap.NewNop().Sugar()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// loadGraph reads a graph file; .yaml and .yml are YAML, anything else JSON.
func loadGraph(path string) (*repertoire.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var g repertoire.Graph
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &g)
	default:
		err = json.Unmarshal(data, &g)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if g.StartingPositionKey == "" {
		return nil, fmt.Errorf("%s: starting_position_key is required", path)
	}
	if !g.Color.Valid() {
		return nil, fmt.Errorf("%s: color must be w or b, got %q", path, g.Color)
	}
	g.Normalize()
	return &g, nil
}

// compileFile loads the graph and the optional opening book and compiles them.
func compileFile(path string) (*linetree.Tree, error) {
	log := newLogger()
	defer log.Sync()

	g, err := loadGraph(path)
	if err != nil {
		return nil, err
	}

	var openings linetree.OpeningBook
	if openingsPath != "" {
		if openings, err = linetree.LoadOpeningBook(openingsPath); err != nil {
			return nil, fmt.Errorf("load openings: %w", err)
		}
		log.Debugf("loaded %d opening names", len(openings))
	}

	tree := linetree.Compile(g, "", linetree.Options{Openings: openings, MaxDepth: maxDepth})
	stats := tree.Stats()
	log.Debugw("compiled", "positions", len(g.Positions), "lines", stats.Lines, "transpositions", stats.Transpositions)
	if stats.Truncated {
		log.Warnf("max depth %d reached, the tree is truncated", maxDepth)
	}
	return tree, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(rootCmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
