// internal/report/inventory_test.go
package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
	"github.com/escoteiros/scout-inventory/internal/report"
	"github.com/escoteiros/scout-inventory/test/helpers"
)

func TestInventoryWorkbook_RoundTrip(t *testing.T) {
	items := []domain.InventoryItem{
		helpers.NewTestInventoryItem(func(i *domain.InventoryItem) {
			i.ID = "a"
			i.Kind = domain.KindRing
			i.Branch = domain.BranchScout
			i.Level = domain.Level2
			i.Quantity = 3
			i.UnitValue = decimal.RequireFromString("4.25")
		}),
		helpers.NewTestInventoryItem(func(i *domain.InventoryItem) { i.ID = "b" }),
	}
	for i := range items {
		items[i].CalculateTotalValue()
	}

	data, err := report.InventoryWorkbookBytes(items)
	require.NoError(t, err)

	rows, err := report.ParseInventoryWorkbook(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	require.NoError(t, first.Err)
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, domain.KindRing, first.Item.Kind)
	assert.Equal(t, domain.BranchScout, first.Item.Branch)
	assert.Equal(t, domain.Level2, first.Item.Level)
	assert.Equal(t, 3, first.Item.Quantity)
	assert.True(t, decimal.RequireFromString("4.25").Equal(first.Item.UnitValue))

	second := rows[1]
	require.NoError(t, second.Err)
	assert.Equal(t, "Camp Badge", second.Item.Description)
	assert.Equal(t, domain.BranchAll, second.Item.Branch)
}

func TestBuildInventoryWorkbook_StoredLabelsAndTotals(t *testing.T) {
	item := helpers.NewTestInventoryItem()
	item.CalculateTotalValue()

	file, err := report.BuildInventoryWorkbook([]domain.InventoryItem{item, item})
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]

	row, err := sheet.Row(1)
	require.NoError(t, err)
	assert.Equal(t, "Distintivo", row.GetCell(1).Value)
	assert.Equal(t, "Não Tem", row.GetCell(2).Value)
	assert.Equal(t, "Todos", row.GetCell(3).Value)

	totals, err := sheet.Row(3)
	require.NoError(t, err)
	assert.Equal(t, "Total", totals.GetCell(0).Value)
	assert.Equal(t, "20", totals.GetCell(4).Value)
}

func TestBuildInventoryWorkbook_UnknownEnum(t *testing.T) {
	item := helpers.NewTestInventoryItem(func(i *domain.InventoryItem) { i.Kind = "Scarf" })

	_, err := report.BuildInventoryWorkbook([]domain.InventoryItem{item})
	assert.True(t, domain.IsValidation(err))
}

func TestParseInventoryWorkbook_RowErrors(t *testing.T) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("upload")
	require.NoError(t, err)

	addRow := func(values ...string) {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	addRow("Descrição", "Tipo", "Nível", "Ramo", "Quantidade", "Valor Unitário")
	addRow("Lenço", "Badge", "None", "Cub", "4", "R$ 12,50")
	addRow("Arganel azul", "Arganel", "Nivel 1", "Lobinho", "2", "3.00")
	addRow("Unknown kind", "Scarf", "None", "Cub", "1", "1.00")
	addRow("Bad quantity", "Badge", "None", "Cub", "many", "1.00")
	addRow("", "", "", "", "", "")

	data := writeFile(t, file)
	rows, err := report.ParseInventoryWorkbook(data)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.NoError(t, rows[0].Err)
	assert.True(t, decimal.RequireFromString("12.50").Equal(rows[0].Item.UnitValue))

	assert.NoError(t, rows[1].Err)
	assert.Equal(t, domain.KindRing, rows[1].Item.Kind)
	assert.Equal(t, domain.Level1, rows[1].Item.Level)
	assert.Equal(t, domain.BranchCub, rows[1].Item.Branch)

	assert.True(t, domain.IsValidation(rows[2].Err))
	assert.Equal(t, 4, rows[2].Row)
	assert.True(t, domain.IsValidation(rows[3].Err))
}

func TestParseInventoryWorkbook_NotAWorkbook(t *testing.T) {
	_, err := report.ParseInventoryWorkbook([]byte("description,kind\n"))
	assert.True(t, domain.IsValidation(err))
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 3, 9, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "inventario_20250309_140500.xlsx", report.FileName(at))
}

func writeFile(t *testing.T, file *xlsx.File) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}
