package billing

import (
	"time"

	"github.com/jhoicas/smart-billing/internal/application/dto"
	"github.com/jhoicas/smart-billing/internal/domain/bill"
	"github.com/jhoicas/smart-billing/internal/domain/entity"
)

const timeLayout = time.RFC3339

func lineResponse(pos int, li bill.LineItem) dto.LineItemResponse {
	return dto.LineItemResponse{
		Position:    pos,
		FieldPrefix: li.FieldPrefix(),
		Description: li.Description,
		Quantity:    li.Quantity,
		Rate:        li.Rate,
		Total:       li.Total.StringFixed(2),
	}
}

func totalsResponse(t bill.Totals, m AmountFormatter) dto.TotalsResponse {
	return dto.TotalsResponse{
		Subtotal:        t.Subtotal.StringFixed(2),
		TaxAmount:       t.TaxAmount.StringFixed(2),
		TotalAmount:     t.GrandTotal.StringFixed(2),
		RemainingAmount: t.RemainingAmount.StringFixed(2),
		Currency:        m.Code(),
		Formatted: dto.FormattedTotals{
			Subtotal:        m.Format(t.Subtotal),
			TaxAmount:       m.Format(t.TaxAmount),
			TotalAmount:     m.Format(t.GrandTotal),
			RemainingAmount: m.Format(t.RemainingAmount),
		},
	}
}

func billResponse(e *bill.Engine, m AmountFormatter) dto.BillResponse {
	rows := e.Rows()
	items := make([]dto.LineItemResponse, 0, len(rows))
	for i, r := range rows {
		items = append(items, lineResponse(i, r))
	}
	adj := e.Adjustments()
	return dto.BillResponse{
		Items: items,
		Adjustments: dto.AdjustmentsResponse{
			TaxRate:       adj.TaxRate,
			Discount:      adj.Discount,
			AdvanceAmount: adj.Advance,
		},
		Totals: totalsResponse(e.Totals(), m),
	}
}

func draftResponse(d *entity.Draft, m AmountFormatter) *dto.DraftResponse {
	paidAt := ""
	if !d.PaidAt.IsZero() {
		paidAt = d.PaidAt.Format(timeLayout)
	}
	return &dto.DraftResponse{
		ID:              d.ID,
		Number:          d.Number,
		OwnerID:         d.OwnerID,
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		CustomerContact: d.CustomerContact,
		Status:          string(d.Status),
		CreatedAt:       d.CreatedAt.Format(timeLayout),
		UpdatedAt:       d.UpdatedAt.Format(timeLayout),
		PaidAt:          paidAt,
		BillResponse:    billResponse(d.Engine, m),
	}
}

func draftSummary(d *entity.Draft) dto.DraftSummary {
	return dto.DraftSummary{
		ID:           d.ID,
		Number:       d.Number,
		OwnerID:      d.OwnerID,
		CustomerName: d.CustomerName,
		Status:       string(d.Status),
		ItemCount:    d.Engine.Len(),
		TotalAmount:  d.Engine.Totals().GrandTotal.StringFixed(2),
		UpdatedAt:    d.UpdatedAt.Format(timeLayout),
	}
}
