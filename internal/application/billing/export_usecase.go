package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/smart-billing/internal/domain"
	"github.com/jhoicas/smart-billing/internal/domain/bill"
	"github.com/jhoicas/smart-billing/internal/domain/entity"
	"github.com/jhoicas/smart-billing/internal/domain/repository"
)

// ExportUseCase genera la representación PDF o XLSX de un borrador.
type ExportUseCase struct {
	repo    repository.DraftRepository
	money   AmountFormatter
	company CompanyInfo
	pdf     BillPDFGenerator
	xlsx    BillSpreadsheetExporter
	now     func() time.Time
}

// NewExportUseCase construye el caso de uso inyectando los generadores.
func NewExportUseCase(
	repo repository.DraftRepository,
	money AmountFormatter,
	company CompanyInfo,
	pdf BillPDFGenerator,
	xlsx BillSpreadsheetExporter,
) *ExportUseCase {
	return &ExportUseCase{
		repo:    repo,
		money:   money,
		company: company,
		pdf:     pdf,
		xlsx:    xlsx,
		now:     time.Now,
	}
}

// DraftPDF devuelve (pdfBytes, filename). Errores: domain.ErrNotFound, domain.ErrForbidden.
func (uc *ExportUseCase) DraftPDF(ctx context.Context, actor Actor, id string) ([]byte, string, error) {
	doc, err := uc.document(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	out, err := uc.pdf.GenerateBillPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return out, doc.Number + ".pdf", nil
}

// DraftXLSX devuelve (xlsxBytes, filename).
func (uc *ExportUseCase) DraftXLSX(ctx context.Context, actor Actor, id string) ([]byte, string, error) {
	doc, err := uc.document(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	out, err := uc.xlsx.ExportBill(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("xlsx: generación fallida: %w", err)
	}
	return out, doc.Number + ".xlsx", nil
}

// document toma una foto consistente del borrador bajo lock de lectura.
func (uc *ExportUseCase) document(ctx context.Context, actor Actor, id string) (BillDocument, error) {
	var doc BillDocument
	err := uc.repo.View(ctx, id, func(d *entity.Draft) error {
		if !d.CanAccess(actor.UserID, actor.Role) {
			return domain.ErrForbidden
		}
		doc = BuildDocument(d, uc.company, uc.money, uc.now())
		return nil
	})
	return doc, err
}

// BuildDocument arma el documento de exportación a partir de un borrador.
func BuildDocument(d *entity.Draft, company CompanyInfo, money AmountFormatter, date time.Time) BillDocument {
	rows := d.Engine.Rows()
	lines := make([]BillDocumentLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, BillDocumentLine{
			FieldIndex:  r.FieldIndex,
			Description: r.Description,
			Quantity:    bill.ParseAmount(r.Quantity),
			Rate:        bill.ParseAmount(r.Rate),
			Total:       r.Total,
		})
	}
	adj := d.Engine.Adjustments()
	return BillDocument{
		Number:          d.Number,
		Date:            date,
		Company:         company,
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		CustomerContact: d.CustomerContact,
		Lines:           lines,
		TaxRate:         bill.ParseAmount(adj.TaxRate),
		Discount:        bill.ParseAmount(adj.Discount),
		Advance:         bill.ParseAmount(adj.Advance),
		Totals:          d.Engine.Totals(),
		Money:           money,
	}
}
