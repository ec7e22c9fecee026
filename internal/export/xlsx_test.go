package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleArticles() []models.Article {
	bolt := models.Article{
		ID: 1, Name: "Bolt", Type: "Screw", Stock: 40, Unit: "pcs",
		Price: decimal.RequireFromString("0.35"), Location: "A1", Status: "ok",
	}
	bolt.SetStyle(models.ColumnName, models.CellStyle{Bold: true, Color: "#FF0000"})

	nut := models.Article{
		ID: -1, Name: "Nut", Type: "Screw", Stock: 0, Unit: "pcs",
		Price: decimal.RequireFromString("0.10"),
	}
	nut.SetStyle(models.ColumnStock, models.CellStyle{Italic: true, Underline: true})

	return []models.Article{bolt, nut}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "articles.xlsx")

	require.NoError(t, NewExporter(25, "#F0F0F0").WriteFile(path, sampleArticles()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Name", "Type", "Stock", "Unit", "Price", "Location", "Status", "Link"}, rows[0])
	assert.Equal(t, "Bolt", rows[1][1])
	assert.Equal(t, "-1", rows[2][0])

	height, err := f.GetRowHeight(sheetName, 2)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, height, 0.01)

	id, err := f.GetCellStyle(sheetName, "B2")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	id, err = f.GetCellStyle(sheetName, "D3")
	require.NoError(t, err)
	style, err = f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Italic)
	assert.Equal(t, "single", style.Font.Underline)
	assert.Equal(t, "pattern", style.Fill.Type)
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewExporter(25, "#F0F0F0").Write(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCellValue(t *testing.T) {
	a := sampleArticles()[0]

	assert.Equal(t, 1, cellValue(a, models.ColumnID))
	assert.Equal(t, 40, cellValue(a, models.ColumnStock))
	assert.InDelta(t, 0.35, cellValue(a, models.ColumnPrice), 0.0001)
	assert.Equal(t, "Bolt", cellValue(a, models.ColumnName))
}
