package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alexjbarnes/inventory-sync/internal/models"
)

// maxCellWidth keeps long links from wrapping the table.
const maxCellWidth = 32

// writeTable prints articles with 1-based row numbers. mark returns the
// marker shown before the row number.
func writeTable(w io.Writer, articles []models.Article, mark func(a models.Article) string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"  #"}
	for _, col := range models.Columns {
		header = append(header, string(col))
	}

	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i, a := range articles {
		cells := []string{fmt.Sprintf("%s%d", mark(a), i+1)}
		for _, col := range models.Columns {
			cells = append(cells, cellText(a, col))
		}

		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

// cellText renders one cell with a compact formatting hint.
func cellText(a models.Article, col models.Column) string {
	v := a.Field(col)
	if r := []rune(v); len(r) > maxCellWidth {
		v = string(r[:maxCellWidth-1]) + "…"
	}

	s := a.Style(col)
	if s.IsDefault() {
		return v
	}

	var flags []string
	if s.Bold {
		flags = append(flags, "b")
	}

	if s.Italic {
		flags = append(flags, "i")
	}

	if s.Underline {
		flags = append(flags, "u")
	}

	if c := s.ValidColor(); c != models.DefaultColor {
		flags = append(flags, c)
	}

	return v + " [" + strings.Join(flags, ",") + "]"
}

// describeStyle renders a cell style for the show command.
func describeStyle(s models.CellStyle) string {
	var parts []string
	if s.Bold {
		parts = append(parts, "bold")
	}

	if s.Italic {
		parts = append(parts, "italic")
	}

	if s.Underline {
		parts = append(parts, "underline")
	}

	parts = append(parts, s.ValidColor())

	return strings.Join(parts, " ")
}
