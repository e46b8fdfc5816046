// internal/report/inventory.go

// Package report builds and reads inventory spreadsheets.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/escoteiros/scout-inventory/internal/adapters/vocab"
	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

// ContentType is the MIME type of generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Inventário"

// Column order of both export and import.
const (
	colDescription = iota
	colKind
	colLevel
	colBranch
	colQuantity
	colUnitValue
	colTotalValue
)

var headers = []string{
	"Descrição", "Tipo", "Nível", "Ramo", "Quantidade", "Valor Unitário", "Valor Total",
}

// BuildInventoryWorkbook renders items into a single-sheet workbook, enum
// columns carrying the stored labels, followed by a totals row.
func BuildInventoryWorkbook(items []domain.InventoryItem) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	var (
		units int
		total decimal.Decimal
	)
	for _, item := range items {
		labels, err := vocab.InventoryLabels(item)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", item.ID, err)
		}

		row := sheet.AddRow()
		row.AddCell().SetString(item.Description)
		row.AddCell().SetString(labels.Kind)
		row.AddCell().SetString(labels.Level)
		row.AddCell().SetString(labels.Branch)
		row.AddCell().SetInt(item.Quantity)
		row.AddCell().SetFloatWithFormat(item.UnitValue.InexactFloat64(), "0.00")
		row.AddCell().SetFloatWithFormat(item.TotalValue.InexactFloat64(), "0.00")

		units += item.Quantity
		total = total.Add(item.TotalValue)
	}

	totals := sheet.AddRow()
	totals.AddCell().SetString("Total")
	for i := colKind; i < colQuantity; i++ {
		totals.AddCell()
	}
	totals.AddCell().SetInt(units)
	totals.AddCell()
	totals.AddCell().SetFloatWithFormat(total.InexactFloat64(), "0.00")

	widths := []float64{40, 26, 12, 14, 12, 15, 15}
	for i, w := range widths {
		sheet.SetColWidth(i+1, i+1, w)
	}
	return file, nil
}

// InventoryWorkbookBytes renders items and serializes the workbook.
func InventoryWorkbookBytes(items []domain.InventoryItem) ([]byte, error) {
	file, err := BuildInventoryWorkbook(items)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName returns the download name of a workbook generated at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("inventario_%s.xlsx", t.UTC().Format("20060102_150405"))
}

// ImportRow is one parsed data row. Row is the 1-based sheet row number.
type ImportRow struct {
	Row  int
	Item domain.InventoryItem
	Err  error
}

// ParseInventoryWorkbook reads the first sheet of an uploaded workbook. The
// header row, blank rows and the totals row are skipped. A row that cannot be
// read carries its error instead of failing the whole workbook.
func ParseInventoryWorkbook(data []byte) ([]ImportRow, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, domain.NewValidationError("file", "file is not a readable xlsx workbook")
	}
	if len(file.Sheets) == 0 {
		return nil, domain.NewValidationError("file", "workbook has no sheets")
	}

	var rows []ImportRow
	err = file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		rowNum := r.GetCoordinate() + 1
		if rowNum == 1 {
			return nil
		}
		description := cellText(r, colDescription)
		if description == "" || strings.EqualFold(description, "total") {
			return nil
		}

		item, err := parseRow(r)
		rows = append(rows, ImportRow{Row: rowNum, Item: item, Err: err})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}

func parseRow(r *xlsx.Row) (domain.InventoryItem, error) {
	item := domain.InventoryItem{Description: cellText(r, colDescription)}

	var err error
	if item.Kind, err = parseEnum(cellText(r, colKind), vocab.ParseKind); err != nil {
		return item, domain.NewValidationError("kind", err.Error())
	}
	if item.Level, err = parseEnum(cellText(r, colLevel), vocab.ParseLevel); err != nil {
		return item, domain.NewValidationError("level", err.Error())
	}
	if item.Branch, err = parseEnum(cellText(r, colBranch), vocab.ParseBranch); err != nil {
		return item, domain.NewValidationError("branch", err.Error())
	}

	qty := cellText(r, colQuantity)
	if item.Quantity, err = strconv.Atoi(strings.TrimSuffix(qty, ".0")); err != nil {
		return item, domain.NewValidationError("quantity", "invalid quantity: "+qty)
	}

	unit := cellText(r, colUnitValue)
	if item.UnitValue, err = parseMoney(unit); err != nil {
		return item, domain.NewValidationError("unitValue", "invalid unit value: "+unit)
	}
	return item, nil
}

// parseEnum accepts either the canonical value or the stored label.
func parseEnum[T interface {
	~string
	Valid() bool
}](s string, parseLabel func(string) (T, error)) (T, error) {
	if v := T(s); v.Valid() {
		return v, nil
	}
	return parseLabel(s)
}

// parseMoney accepts 12.50, 12,50 and R$ 12,50.
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

func cellText(r *xlsx.Row, i int) string {
	c := r.GetCell(i)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}
