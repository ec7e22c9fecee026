// Package export writes the article table to an XLSX workbook with the
// same cell formatting the editor shows.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "Articles"
	colWidth  = 16
)

// styleKey identifies one distinct excelize style.
type styleKey struct {
	cell    models.CellStyle
	striped bool
	header  bool
	price   bool
}

// Exporter renders articles to XLSX.
type Exporter struct {
	rowHeight   float64
	stripeColor string
}

// NewExporter creates an exporter. Even data rows get stripeColor as
// background; every row gets rowHeight (in points).
func NewExporter(rowHeight int, stripeColor string) *Exporter {
	return &Exporter{rowHeight: float64(rowHeight), stripeColor: stripeColor}
}

// WriteFile writes the workbook to path, replacing any existing file.
func (x *Exporter) WriteFile(path string, articles []models.Article) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f, err := x.build(articles)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	return nil
}

// Write streams the workbook to w.
func (x *Exporter) Write(w io.Writer, articles []models.Article) error {
	f, err := x.build(articles)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func (x *Exporter) build(articles []models.Article) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	styles := make(map[styleKey]int)
	styleFor := func(k styleKey) (int, error) {
		if id, ok := styles[k]; ok {
			return id, nil
		}

		id, err := f.NewStyle(x.excelStyle(k))
		if err != nil {
			return 0, fmt.Errorf("creating cell style: %w", err)
		}

		styles[k] = id

		return id, nil
	}

	last, err := excelize.ColumnNumberToName(len(models.Columns))
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetColWidth(sheetName, "A", last, colWidth); err != nil {
		f.Close()
		return nil, fmt.Errorf("setting column width: %w", err)
	}

	header, err := styleFor(styleKey{header: true})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, col := range models.Columns {
		if err := x.setCell(f, i+1, 1, string(col), header); err != nil {
			f.Close()
			return nil, err
		}
	}

	for r, a := range articles {
		row := r + 2
		striped := r%2 == 1

		if err := f.SetRowHeight(sheetName, row, x.rowHeight); err != nil {
			f.Close()
			return nil, fmt.Errorf("setting row height: %w", err)
		}

		for i, col := range models.Columns {
			id, err := styleFor(styleKey{cell: a.Style(col), striped: striped, price: col == models.ColumnPrice})
			if err != nil {
				f.Close()
				return nil, err
			}

			if err := x.setCell(f, i+1, row, cellValue(a, col), id); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return f, nil
}

func (x *Exporter) setCell(f *excelize.File, col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("writing %s: %w", cell, err)
	}

	if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
		return fmt.Errorf("styling %s: %w", cell, err)
	}

	return nil
}

// cellValue keeps numbers numeric so the sheet can compute with them.
func cellValue(a models.Article, col models.Column) any {
	switch col {
	case models.ColumnID:
		return a.ID
	case models.ColumnStock:
		return a.Stock
	case models.ColumnPrice:
		return a.Price.InexactFloat64()
	default:
		return a.Field(col)
	}
}

func (x *Exporter) excelStyle(k styleKey) *excelize.Style {
	s := &excelize.Style{
		Font: &excelize.Font{
			Bold:   k.cell.Bold || k.header,
			Italic: k.cell.Italic,
			Color:  k.cell.ValidColor(),
		},
		Alignment: &excelize.Alignment{Vertical: "center"},
	}

	if k.price {
		// Built-in format 2 is "0.00".
		s.NumFmt = 2
	}

	if k.cell.Underline {
		s.Font.Underline = "single"
	}

	if k.striped {
		s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{x.stripeColor}}
	}

	return s
}
