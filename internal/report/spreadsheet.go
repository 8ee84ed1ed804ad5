// Package report renders normalized records for people: an xlsx sheet for
// invoices and a plain-text summary for contracts.
package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docmind/internal/entity"
)

const (
	SheetName     = "Invoice"
	TaxLabel      = "TAX / VAT"
	DiscountLabel = "DISCOUNT"
	TotalLabel    = "GRAND TOTAL"
)

var headers = []string{
	"Vendor",
	"Date",
	"Invoice #",
	"Description",
	"Quantity",
	"Unit Price",
	"Total",
}

// Renderer produces report bytes. It holds no state besides the logger.
type Renderer struct {
	logger *slog.Logger
}

func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// Spreadsheet returns an xlsx workbook with one row per line item, a tax row
// when tax is positive and a grand total row.
func (r *Renderer) Spreadsheet(rec entity.UniformRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	index, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(index)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	row := 1
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(SheetName, cell, v)
	}
	boldRow := func() {
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(headers), row)
		_ = f.SetCellStyle(SheetName, first, last, bold)
	}

	for i, h := range headers {
		write(i+1, h)
	}
	boldRow()
	row++

	for _, it := range rec.LineItems {
		write(1, rec.VendorName)
		write(2, rec.InvoiceDate)
		write(3, rec.InvoiceNumber)
		write(4, it.Description)
		write(5, cellAmount(it.Quantity))
		write(6, cellAmount(it.UnitPrice))
		write(7, cellAmount(it.TotalPrice))
		row++
	}

	if rec.TaxAmount.Valid() && rec.TaxAmount > 0 {
		write(4, TaxLabel)
		write(7, rec.TaxAmount.Float64())
		row++
	}

	// Discounts reduce the total, so they are written negative.
	if d := rec.DiscountAmount; d != nil && d.Valid() && *d > 0 {
		write(4, DiscountLabel)
		write(7, -d.Float64())
		row++
	}

	write(4, TotalLabel)
	write(7, cellAmount(rec.TotalAmount))
	boldRow()

	_ = f.SetColWidth(SheetName, "A", "A", 28) // vendor
	_ = f.SetColWidth(SheetName, "B", "C", 14) // date, number
	_ = f.SetColWidth(SheetName, "D", "D", 40) // description
	_ = f.SetColWidth(SheetName, "E", "G", 14) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	r.logger.Info("report.xlsx.ok",
		"vendor", rec.VendorName,
		"rows", len(rec.LineItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// cellAmount leaves unparseable amounts blank.
func cellAmount(a entity.Amount) any {
	if !a.Valid() {
		return ""
	}
	return a.Float64()
}
