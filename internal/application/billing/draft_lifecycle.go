package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smart-billing/internal/application/dto"
	"github.com/jhoicas/smart-billing/internal/domain"
	"github.com/jhoicas/smart-billing/internal/domain/bill"
	"github.com/jhoicas/smart-billing/internal/domain/entity"
)

// UpdateStatus cambia el estado de cobro. Marcar como pagada fija el anticipo
// en el total, con lo que el saldo queda en 0.
func (uc *DraftUseCase) UpdateStatus(ctx context.Context, actor Actor, id string, in dto.UpdateStatusRequest) (*dto.DraftResponse, error) {
	status, ok := entity.ParseDraftStatus(strings.TrimSpace(in.Status))
	if !ok {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	resp, err := uc.mutateDraft(ctx, actor, id, func(d *entity.Draft) error {
		d.Status = status
		if status == entity.StatusPaid {
			d.PaidAt = uc.now()
			d.Engine.SetAdvance(d.Engine.Totals().GrandTotal.StringFixed(2))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("draft_id", id).Str("status", string(status)).Msg("estado actualizado")
	return resp, nil
}

// RecordPayment suma un abono al anticipo. El abono no puede ser negativo ni
// superar el saldo. Saldo 0 deja la factura pagada; un abono parcial la deja enviada.
func (uc *DraftUseCase) RecordPayment(ctx context.Context, actor Actor, id string, in dto.RecordPaymentRequest) (*dto.DraftResponse, error) {
	raw := strings.TrimSpace(string(in.PaymentAmount))
	if raw == "" {
		raw = "0"
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: abono %q", domain.ErrInvalidInput, string(in.PaymentAmount))
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: el abono no puede ser negativo", domain.ErrInvalidInput)
	}

	resp, err := uc.mutateDraft(ctx, actor, id, func(d *entity.Draft) error {
		remaining := d.Engine.Totals().RemainingAmount
		if amount.GreaterThan(remaining) {
			return fmt.Errorf("%w: el abono %s supera el saldo %s",
				domain.ErrInvalidInput, amount.StringFixed(2), remaining.StringFixed(2))
		}
		advance := bill.Round2(bill.ParseAmount(d.Engine.Adjustments().Advance).Add(amount))
		t := d.Engine.SetAdvance(advance.StringFixed(2))

		switch {
		case t.RemainingAmount.IsZero():
			d.Status = entity.StatusPaid
			d.PaidAt = uc.now()
		case advance.IsPositive():
			d.Status = entity.StatusSent
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("draft_id", id).
		Str("amount", amount.StringFixed(2)).
		Str("status", resp.Status).
		Msg("abono registrado")
	return resp, nil
}

// Duplicate crea una factura nueva con las filas, el cliente, el impuesto y el
// descuento de otra. El anticipo vuelve a 0 y el estado a draft.
func (uc *DraftUseCase) Duplicate(ctx context.Context, actor Actor, id string) (*dto.DraftResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	var copyOf *entity.Draft
	err := uc.repo.View(ctx, id, func(d *entity.Draft) error {
		if !d.CanAccess(actor.UserID, actor.Role) {
			return domain.ErrForbidden
		}
		adj := d.Engine.Adjustments()
		copyOf = &entity.Draft{
			OwnerID:         actor.UserID,
			CustomerName:    d.CustomerName,
			CustomerEmail:   d.CustomerEmail,
			CustomerContact: d.CustomerContact,
			Engine: uc.newEngine(
				bill.WithRows(d.Engine.Rows()...),
				bill.WithAdjustments(bill.Adjustments{TaxRate: adj.TaxRate, Discount: adj.Discount}),
			),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.insert(ctx, copyOf, "borrador duplicado")
}
