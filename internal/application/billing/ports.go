package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smart-billing/internal/domain/bill"
)

// Actor usuario autenticado que ejecuta la operación (extraído del JWT).
type Actor struct {
	UserID string
	Role   string
}

// MetricsRecorder registra la actividad del motor de totales.
type MetricsRecorder interface {
	RecomputeObserved(trigger string)
	DraftsActive(n int)
}

type noopMetrics struct{}

func (noopMetrics) RecomputeObserved(string) {}
func (noopMetrics) DraftsActive(int)         {}

// AmountFormatter formatea montos en la moneda del servicio (lo implementa *money.Formatter).
type AmountFormatter interface {
	Code() string
	Format(amount decimal.Decimal) string
}

// CompanyInfo datos del emisor impresos en los documentos.
type CompanyInfo struct {
	Name  string
	Email string
	Phone string
}

// BillDocumentLine línea ya calculada para exportar.
type BillDocumentLine struct {
	FieldIndex  int
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Total       decimal.Decimal
}

// BillDocument todo lo necesario para renderizar una factura (PDF, XLSX).
type BillDocument struct {
	Number          string
	Date            time.Time
	Company         CompanyInfo
	CustomerName    string
	CustomerEmail   string
	CustomerContact string
	Lines           []BillDocumentLine
	TaxRate         decimal.Decimal
	Discount        decimal.Decimal
	Advance         decimal.Decimal
	Totals          bill.Totals
	Money           AmountFormatter
}

// BillPDFGenerator genera la representación PDF de una factura.
type BillPDFGenerator interface {
	GenerateBillPDF(ctx context.Context, doc BillDocument) ([]byte, error)
}

// BillSpreadsheetExporter genera la factura como libro XLSX.
type BillSpreadsheetExporter interface {
	ExportBill(ctx context.Context, doc BillDocument) ([]byte, error)
}
