package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chess_repertoire/internal/domain/repertoire"
	"chess_repertoire/internal/usecase/linetree"
)

var locateCmd = &cobra.Command{
	Use:   "locate <graph-file> <position-key> [notation]",
	Short: "Find the line and move index that reach a position",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := compileFile(args[0])
		if err != nil {
			return err
		}
		notation := ""
		if len(args) == 3 {
			notation = args[2]
		}

		loc := linetree.Locate(tree.Root, notation, args[1])
		if loc == nil {
			return fmt.Errorf("no line reaches %q", args[1])
		}
		return printJSON(repertoire.LocationView{
			Line:      repertoire.NewLineView(loc.CurrentLine, false),
			ParentID:  loc.ParentLine.ID,
			MoveIndex: loc.MoveIndex,
			Truncated: linetree.TruncateNotationAt(loc.CurrentLine, loc.MoveIndex),
		})
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
