package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"chess_repertoire/internal/usecase/export"
)

var (
	pdfOutput string
	pdfTitle  string
)

var pgnCmd = &cobra.Command{
	Use:   "pgn <graph-file>",
	Short: "Print every leaf line as PGN movetext",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := compileFile(args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), export.PGN(tree))
		return err
	},
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <graph-file>",
	Short: "Render every leaf line into a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := compileFile(args[0])
		if err != nil {
			return err
		}

		out := pdfOutput
		if out == "" {
			out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pdf"
		}
		title := pdfTitle
		if title == "" {
			title = filepath.Base(strings.TrimSuffix(args[0], filepath.Ext(args[0])))
		}

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err = export.PDF(title, tree, f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PDF written to %s\n", out)
		return nil
	},
}

func init() {
	pdfCmd.Flags().StringVarP(&pdfOutput, "output", "o", "", "Output file (default: graph file with .pdf extension)")
	pdfCmd.Flags().StringVar(&pdfTitle, "title", "", "Document title")
	rootCmd.AddCommand(pgnCmd, pdfCmd)
}
