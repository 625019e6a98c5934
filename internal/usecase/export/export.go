package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"chess_repertoire/internal/domain/repertoire"
	"chess_repertoire/internal/usecase/linetree"
)

const gameTermination = "*"

// PGN renders the move body of every leaf line, one game per line of the
// tree. Lines that continue through a transposition get a comment naming
// the line they join.
func PGN(tree *linetree.Tree) string {
	var builder strings.Builder
	for i, leaf := range tree.Leaves() {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(leaf.Notation)
		if el := leaf.Transposition; el != nil && el.Line != nil {
			fmt.Fprintf(&builder, " {transposes to %s}", linetree.TruncateNotationAt(el.Line, el.MoveIndex))
		}
		builder.WriteString(" ")
		builder.WriteString(gameTermination)
	}
	return builder.String()
}

// PDF prints every leaf line, grouped by opening name, in Courier.
func PDF(title string, tree *linetree.Tree, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Courier", "B", 14)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	stats := tree.Stats()
	pdf.SetFont("Courier", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("%d lines, %d unfinished, %d transpositions", stats.Leaves, stats.Unfinished, stats.Transpositions))
	pdf.Ln(8)

	opening := ""
	for _, leaf := range tree.Leaves() {
		if leaf.Opening != opening && leaf.Opening != "" {
			opening = leaf.Opening
			pdf.SetFont("Courier", "B", 11)
			pdf.Ln(2)
			pdf.Cell(0, 6, opening)
			pdf.Ln(7)
		}
		pdf.SetFont("Courier", "", 10)
		pdf.MultiCell(0, 4.5, leafText(leaf), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func leafText(leaf *repertoire.Line) string {
	text := leaf.Notation
	switch {
	case leaf.Transposition != nil && leaf.Transposition.Line != nil:
		text += "  => " + leaf.Transposition.Line.Notation
	case leaf.Unfinished:
		text += "  (unfinished)"
	}
	return text
}
