// Package xlsx exporta facturas a libros de Excel con excelize.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	appbilling "github.com/jhoicas/smart-billing/internal/application/billing"
)

// Nombres de las hojas generadas.
const (
	SheetItems   = "Items"
	SheetSummary = "Summary"
)

// ExcelizeExporter implementa billing.BillSpreadsheetExporter.
type ExcelizeExporter struct {
	appName string
}

// NewExcelizeExporter construye el exportador; appName queda en las propiedades del libro.
func NewExcelizeExporter(appName string) *ExcelizeExporter {
	return &ExcelizeExporter{appName: appName}
}

// ExportBill genera el libro con las hojas Items y Summary y devuelve sus bytes.
func (x *ExcelizeExporter) ExportBill(ctx context.Context, doc appbilling.BillDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetAppProps(&excelize.AppProperties{
		Application: x.appName,
		Company:     doc.Company.Name,
	}); err != nil {
		return nil, fmt.Errorf("xlsx: propiedades: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator: doc.Company.Name,
		Title:   doc.Number,
	}); err != nil {
		return nil, fmt.Errorf("xlsx: propiedades: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetItems); err != nil {
		return nil, fmt.Errorf("xlsx: hoja %s: %w", SheetItems, err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("xlsx: hoja %s: %w", SheetSummary, err)
	}
	if err := writeItems(f, doc); err != nil {
		return nil, err
	}
	if err := writeSummary(f, doc); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func writeItems(f *excelize.File, doc appbilling.BillDocument) error {
	headers := []interface{}{"Field", "Description", "Quantity", "Rate", "Total"}
	if err := f.SetSheetRow(SheetItems, "A1", &headers); err != nil {
		return fmt.Errorf("xlsx: cabecera: %w", err)
	}
	for i, l := range doc.Lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			fmt.Sprintf("items[%d]", l.FieldIndex),
			l.Description,
			l.Quantity.InexactFloat64(),
			l.Rate.InexactFloat64(),
			l.Total.InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetItems, cell, &values); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+1, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}
	if len(doc.Lines) > 0 {
		last := fmt.Sprintf("E%d", len(doc.Lines)+1)
		if err := f.SetCellStyle(SheetItems, "C2", last, style); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetItems, "A1", "E1", bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetItems, "B", "B", 40)
}

func writeSummary(f *excelize.File, doc appbilling.BillDocument) error {
	t := doc.Totals
	rows := [][]interface{}{
		{"Invoice", doc.Number},
		{"Date", doc.Date.Format("2006-01-02")},
		{"Customer", doc.CustomerName},
		{"Currency", doc.Money.Code()},
		{"Subtotal", t.Subtotal.InexactFloat64()},
		{"Tax rate (%)", doc.TaxRate.InexactFloat64()},
		{"Tax amount", t.TaxAmount.InexactFloat64()},
		{"Discount", doc.Discount.InexactFloat64()},
		{"Total amount", t.GrandTotal.InexactFloat64()},
		{"Advance amount", doc.Advance.InexactFloat64()},
		{"Remaining amount", t.RemainingAmount.InexactFloat64()},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := r
		if err := f.SetSheetRow(SheetSummary, cell, &values); err != nil {
			return fmt.Errorf("xlsx: resumen: %w", err)
		}
	}
	return f.SetColWidth(SheetSummary, "A", "A", 20)
}
