package infra

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
)

const stockSheet = "Valuasi Stok"

// RenderStockValuationXLSX builds the stock valuation spreadsheet: one row
// per product, a bold header and a totals row.
func RenderStockValuationXLSX(products []model.Product, profile model.StoreProfile, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", stockSheet); err != nil {
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, fmt.Errorf("xlsx: style: %w", err)
	}

	setRow := func(row int, values []interface{}) error {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		return f.SetSheetRow(stockSheet, cell, &values)
	}

	if err := setRow(1, []interface{}{profile.Name, "Dicetak " + generatedAt.Format("02/01/2006 15:04")}); err != nil {
		return nil, fmt.Errorf("xlsx: title: %w", err)
	}
	headers := []interface{}{"Barcode", "Nama", "Kategori", "Harga Modal", "Harga Jual", "Stok", "Valuasi"}
	if err := setRow(3, headers); err != nil {
		return nil, fmt.Errorf("xlsx: header: %w", err)
	}
	_ = f.SetCellStyle(stockSheet, "A3", "G3", boldStyle)

	row := 4
	var totalValue int64
	totalUnits := 0
	for _, p := range products {
		totalValue += p.StockValue()
		totalUnits += p.Stock
		if err := setRow(row, []interface{}{p.Barcode, p.Name, p.Category, p.CostPrice, p.Price, p.Stock, p.StockValue()}); err != nil {
			return nil, fmt.Errorf("xlsx: row %d: %w", row, err)
		}
		row++
	}
	if err := setRow(row, []interface{}{"TOTAL", "", "", "", "", totalUnits, totalValue}); err != nil {
		return nil, fmt.Errorf("xlsx: totals: %w", err)
	}
	_ = f.SetCellStyle(stockSheet, "D4", fmt.Sprintf("G%d", row), moneyStyle)
	_ = f.SetCellStyle(stockSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), boldStyle)
	_ = f.SetColWidth(stockSheet, "B", "B", 32)
	_ = f.SetColWidth(stockSheet, "A", "A", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}
