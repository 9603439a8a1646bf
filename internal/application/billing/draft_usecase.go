package billing

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/smart-billing/internal/application/dto"
	"github.com/jhoicas/smart-billing/internal/domain"
	"github.com/jhoicas/smart-billing/internal/domain/bill"
	"github.com/jhoicas/smart-billing/internal/domain/entity"
	"github.com/jhoicas/smart-billing/internal/domain/repository"
	"github.com/jhoicas/smart-billing/pkg/logger"
)

// DraftUseCase expone las operaciones del motor de totales sobre borradores en memoria.
// Cada operación es una llamada directa al Engine bajo el lock del repositorio,
// de modo que la respuesta siempre refleja un recálculo completo.
type DraftUseCase struct {
	repo         repository.DraftRepository
	money        AmountFormatter
	metrics      MetricsRecorder
	log          *logger.Logger
	numberPrefix string
	now          func() time.Time
}

// NewDraftUseCase construye el caso de uso. metrics puede ser nil.
func NewDraftUseCase(
	repo repository.DraftRepository,
	money AmountFormatter,
	metrics MetricsRecorder,
	log *logger.Logger,
	numberPrefix string,
) *DraftUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if numberPrefix == "" {
		numberPrefix = "INV"
	}
	return &DraftUseCase{
		repo:         repo,
		money:        money,
		metrics:      metrics,
		log:          log.Named("drafts"),
		numberPrefix: numberPrefix,
		now:          time.Now,
	}
}

func (uc *DraftUseCase) newEngine(opts ...bill.Option) *bill.Engine {
	opts = append(opts, bill.WithObserver(func(tr bill.Trigger, t bill.Totals) {
		uc.metrics.RecomputeObserved(string(tr))
		uc.log.Trace().
			Str("trigger", string(tr)).
			Str("total_amount", t.GrandTotal.StringFixed(2)).
			Msg("totales recalculados")
	}))
	e := bill.NewEngine(opts...)
	e.Init()
	return e
}

// Create crea un borrador vacío con número consecutivo (ej. INV-000001).
func (uc *DraftUseCase) Create(ctx context.Context, actor Actor, in dto.CreateDraftRequest) (*dto.DraftResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	draft := &entity.Draft{
		OwnerID:         actor.UserID,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		CustomerContact: strings.TrimSpace(in.CustomerContact),
		Engine: uc.newEngine(bill.WithAdjustments(bill.Adjustments{
			TaxRate:  string(in.TaxRate),
			Discount: string(in.Discount),
			Advance:  string(in.AdvanceAmount),
		})),
	}
	return uc.insert(ctx, draft, "borrador creado")
}

// insert numera y guarda un borrador nuevo en estado draft.
func (uc *DraftUseCase) insert(ctx context.Context, draft *entity.Draft, msg string) (*dto.DraftResponse, error) {
	seq, err := uc.repo.NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("drafts: consecutivo: %w", err)
	}
	draft.Number = fmt.Sprintf("%s-%06d", uc.numberPrefix, seq)
	draft.Status = entity.StatusDraft
	if err := uc.repo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("drafts: crear: %w", err)
	}
	uc.reportActive(ctx)
	uc.log.Info().
		Str("draft_id", draft.ID).
		Str("number", draft.Number).
		Str("owner_id", draft.OwnerID).
		Msg(msg)

	var resp *dto.DraftResponse
	err = uc.repo.View(ctx, draft.ID, func(d *entity.Draft) error {
		resp = draftResponse(d, uc.money)
		return nil
	})
	return resp, err
}

// Get devuelve el borrador con filas y totales.
func (uc *DraftUseCase) Get(ctx context.Context, actor Actor, id string) (*dto.DraftResponse, error) {
	var resp *dto.DraftResponse
	err := uc.repo.View(ctx, id, func(d *entity.Draft) error {
		if !d.CanAccess(actor.UserID, actor.Role) {
			return domain.ErrForbidden
		}
		resp = draftResponse(d, uc.money)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// List devuelve los borradores visibles para el usuario (todos si es admin), paginados.
func (uc *DraftUseCase) List(ctx context.Context, actor Actor, page dto.PageRequest) (*dto.DraftListResponse, error) {
	page.DefaultPage()
	visible := make([]dto.DraftSummary, 0)
	err := uc.repo.List(ctx, func(d *entity.Draft) error {
		if d.CanAccess(actor.UserID, actor.Role) {
			visible = append(visible, draftSummary(d))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drafts: listar: %w", err)
	}

	total := len(visible)
	start := page.Offset
	if start > total {
		start = total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return &dto.DraftListResponse{
		Items: visible[start:end],
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete descarta el borrador. Una factura pagada no se puede eliminar (domain.ErrConflict).
func (uc *DraftUseCase) Delete(ctx context.Context, actor Actor, id string) error {
	err := uc.repo.View(ctx, id, func(d *entity.Draft) error {
		if !d.CanAccess(actor.UserID, actor.Role) {
			return domain.ErrForbidden
		}
		if !d.CanDelete() {
			return fmt.Errorf("%w: la factura %s está pagada", domain.ErrConflict, d.Number)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.reportActive(ctx)
	uc.log.Info().Str("draft_id", id).Str("user_id", actor.UserID).Msg("borrador eliminado")
	return nil
}

// AddRow agrega una fila con valores por defecto (cantidad 1, tarifa vacía).
func (uc *DraftUseCase) AddRow(ctx context.Context, actor Actor, id string) (*dto.RowAddedResponse, error) {
	var resp *dto.RowAddedResponse
	err := uc.mutate(ctx, actor, id, func(d *entity.Draft) error {
		row := d.Engine.AddRow()
		resp = &dto.RowAddedResponse{
			Row:   lineResponse(d.Engine.Len()-1, row),
			Draft: *draftResponse(d, uc.money),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RemoveRow elimina la fila en la posición indicada; no pide confirmación.
func (uc *DraftUseCase) RemoveRow(ctx context.Context, actor Actor, id string, pos int) (*dto.DraftResponse, error) {
	return uc.mutateDraft(ctx, actor, id, func(d *entity.Draft) error {
		_, err := d.Engine.RemoveRow(pos)
		return err
	})
}

// UpdateRow aplica descripción, cantidad y tarifa (los campos presentes), en ese orden.
func (uc *DraftUseCase) UpdateRow(ctx context.Context, actor Actor, id string, pos int, in dto.UpdateRowRequest) (*dto.DraftResponse, error) {
	return uc.mutateDraft(ctx, actor, id, func(d *entity.Draft) error {
		if pos < 0 || pos >= d.Engine.Len() {
			return fmt.Errorf("%w: fila %d", domain.ErrNotFound, pos)
		}
		if in.Description != nil {
			if err := d.Engine.SetDescription(pos, *in.Description); err != nil {
				return err
			}
		}
		if in.Quantity != nil {
			if _, err := d.Engine.SetQuantity(pos, string(*in.Quantity)); err != nil {
				return err
			}
		}
		if in.Rate != nil {
			if _, err := d.Engine.SetRate(pos, string(*in.Rate)); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateAdjustments actualiza tasa de impuesto, descuento y anticipo (los presentes).
func (uc *DraftUseCase) UpdateAdjustments(ctx context.Context, actor Actor, id string, in dto.UpdateAdjustmentsRequest) (*dto.DraftResponse, error) {
	return uc.mutateDraft(ctx, actor, id, func(d *entity.Draft) error {
		if in.TaxRate != nil {
			d.Engine.SetTaxRate(string(*in.TaxRate))
		}
		if in.Discount != nil {
			d.Engine.SetDiscount(string(*in.Discount))
		}
		if in.AdvanceAmount != nil {
			d.Engine.SetAdvance(string(*in.AdvanceAmount))
		}
		return nil
	})
}

// Calculate calcula una factura completa sin guardar estado.
func (uc *DraftUseCase) Calculate(_ context.Context, in dto.CalculateRequest) dto.BillResponse {
	rows := make([]bill.LineItem, 0, len(in.Items))
	for i, it := range in.Items {
		rows = append(rows, bill.LineItem{
			FieldIndex:  i,
			Description: it.Description,
			Quantity:    string(it.Quantity),
			Rate:        string(it.Rate),
		})
	}
	e := uc.newEngine(
		bill.WithRows(rows...),
		bill.WithAdjustments(bill.Adjustments{
			TaxRate:  string(in.TaxRate),
			Discount: string(in.Discount),
			Advance:  string(in.AdvanceAmount),
		}),
	)
	return billResponse(e, uc.money)
}

// SubmitForm interpreta un formulario items[N][...] y devuelve la factura calculada.
func (uc *DraftUseCase) SubmitForm(_ context.Context, form url.Values) dto.BillResponse {
	items, adj := bill.ParseItemsForm(form)
	e := uc.newEngine(bill.WithRows(items...), bill.WithAdjustments(adj))
	uc.log.Debug().Int("items", len(items)).Msg("formulario de factura recibido")
	return billResponse(e, uc.money)
}

func (uc *DraftUseCase) mutateDraft(ctx context.Context, actor Actor, id string, fn func(*entity.Draft) error) (*dto.DraftResponse, error) {
	var resp *dto.DraftResponse
	err := uc.mutate(ctx, actor, id, func(d *entity.Draft) error {
		if err := fn(d); err != nil {
			return err
		}
		resp = draftResponse(d, uc.money)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (uc *DraftUseCase) mutate(ctx context.Context, actor Actor, id string, fn func(*entity.Draft) error) error {
	return uc.repo.Update(ctx, id, func(d *entity.Draft) error {
		if !d.CanAccess(actor.UserID, actor.Role) {
			return domain.ErrForbidden
		}
		return fn(d)
	})
}

func (uc *DraftUseCase) reportActive(ctx context.Context) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo contar borradores")
		return
	}
	uc.metrics.DraftsActive(n)
}
