package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	appbilling "github.com/jhoicas/smart-billing/internal/application/billing"
	"github.com/jhoicas/smart-billing/internal/domain/bill"
	"github.com/jhoicas/smart-billing/internal/domain/entity"
	"github.com/jhoicas/smart-billing/internal/infrastructure/xlsx"
	"github.com/jhoicas/smart-billing/pkg/money"
)

func TestExportBill_HojasYValores(t *testing.T) {
	fm, err := money.New("INR", "en-IN")
	require.NoError(t, err)

	e := bill.NewEngine(
		bill.WithRows(bill.LineItem{FieldIndex: 4, Description: "Lamination", Quantity: "2", Rate: "150"}),
		bill.WithAdjustments(bill.Adjustments{TaxRate: "18", Discount: "50"}),
	)
	e.Init()
	d := &entity.Draft{Number: "INV-000003", CustomerName: "Ravi", Engine: e}
	doc := appbilling.BuildDocument(d, appbilling.CompanyInfo{Name: "Great Cyber Cafe"}, fm,
		time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC))

	out, err := xlsx.NewExcelizeExporter("smart-billing").ExportBill(context.Background(), doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{xlsx.SheetItems, xlsx.SheetSummary}, f.GetSheetList())

	field, err := f.GetCellValue(xlsx.SheetItems, "A2")
	require.NoError(t, err)
	assert.Equal(t, "items[4]", field)

	desc, err := f.GetCellValue(xlsx.SheetItems, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Lamination", desc)

	label, err := f.GetCellValue(xlsx.SheetSummary, "A9")
	require.NoError(t, err)
	assert.Equal(t, "Total amount", label)

	cur, err := f.GetCellValue(xlsx.SheetSummary, "B4")
	require.NoError(t, err)
	assert.Equal(t, "INR", cur)

	number, err := f.GetCellValue(xlsx.SheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, "INV-000003", number)
}
