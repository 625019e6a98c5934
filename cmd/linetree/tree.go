package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"chess_repertoire/internal/domain/repertoire"
	"chess_repertoire/internal/usecase/linetree"
)

var treeJSON bool

var treeCmd = &cobra.Command{
	Use:   "tree <graph-file>",
	Short: "Print the compiled line tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := compileFile(args[0])
		if err != nil {
			return err
		}
		if treeJSON {
			return printJSON(struct {
				Root  repertoire.LineView `json:"root"`
				Stats linetree.Stats      `json:"stats"`
			}{repertoire.NewLineView(tree.Root, true), tree.Stats()})
		}
		printTree(cmd.OutOrStdout(), tree)
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(treeCmd)
}

func printTree(w io.Writer, tree *linetree.Tree) {
	for _, child := range tree.Root.Children {
		printLine(w, child, 0)
	}

	stats := tree.Stats()
	fmt.Fprintf(w, "\n%d lines, %d leaves, %d transpositions, %d unfinished\n",
		stats.Lines, stats.Leaves, stats.Transpositions, stats.Unfinished)
	if stats.Truncated {
		fmt.Fprintln(w, "truncated at max depth")
	}
}

func printLine(w io.Writer, line *repertoire.Line, level int) {
	var marks []string
	if line.Opening != "" {
		marks = append(marks, line.Opening)
	}
	if line.Flags.IsShared {
		marks = append(marks, "shared")
	}
	if line.Unfinished {
		marks = append(marks, "unfinished")
	}
	if el := line.Transposition; el != nil && el.Line != nil {
		marks = append(marks, "transposes to "+linetree.TruncateNotationAt(el.Line, el.MoveIndex))
	}

	fmt.Fprintf(w, "%s%s", strings.Repeat("  ", level), line.Notation)
	if len(marks) > 0 {
		fmt.Fprintf(w, "  [%s]", strings.Join(marks, ", "))
	}
	fmt.Fprintln(w)

	for _, child := range line.Children {
		printLine(w, child, level+1)
	}
}
