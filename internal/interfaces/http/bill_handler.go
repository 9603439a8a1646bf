package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smart-billing/internal/application/billing"
	"github.com/jhoicas/smart-billing/internal/application/dto"
	"github.com/jhoicas/smart-billing/internal/domain"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// BillHandler maneja las peticiones de cálculo, borradores y exportación de facturas.
type BillHandler struct {
	drafts *billing.DraftUseCase
	export *billing.ExportUseCase
}

// NewBillHandler construye el handler.
func NewBillHandler(drafts *billing.DraftUseCase, export *billing.ExportUseCase) *BillHandler {
	return &BillHandler{drafts: drafts, export: export}
}

// Calculate POST /api/bills/calculate. Calcula sin guardar estado.
func (h *BillHandler) Calculate(c *fiber.Ctx) error {
	var in dto.CalculateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return c.JSON(h.drafts.Calculate(c.UserContext(), in))
}

// SubmitForm POST /api/bills/form (application/x-www-form-urlencoded o multipart/form-data).
func (h *BillHandler) SubmitForm(c *fiber.Ctx) error {
	form, err := formValues(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	return c.JSON(h.drafts.SubmitForm(c.UserContext(), form))
}

func formValues(c *fiber.Ctx) (url.Values, error) {
	ct := strings.ToLower(c.Get(fiber.HeaderContentType))
	switch {
	case strings.HasPrefix(ct, fiber.MIMEApplicationForm):
		form, err := url.ParseQuery(string(c.Body()))
		if err != nil {
			return nil, errors.New("formulario inválido")
		}
		return form, nil
	case strings.HasPrefix(ct, fiber.MIMEMultipartForm):
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, errors.New("formulario multipart inválido")
		}
		return url.Values(mf.Value), nil
	}
	return nil, fmt.Errorf("content-type no soportado: %q", ct)
}

// CreateDraft POST /api/bills/drafts.
func (h *BillHandler) CreateDraft(c *fiber.Ctx) error {
	var in dto.CreateDraftRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.drafts.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListDrafts GET /api/bills/drafts?limit=&offset=.
func (h *BillHandler) ListDrafts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.drafts.List(c.UserContext(), actorFrom(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetDraft GET /api/bills/drafts/:id.
func (h *BillHandler) GetDraft(c *fiber.Ctx) error {
	out, err := h.drafts.Get(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteDraft DELETE /api/bills/drafts/:id.
func (h *BillHandler) DeleteDraft(c *fiber.Ctx) error {
	if err := h.drafts.Delete(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddRow POST /api/bills/drafts/:id/rows.
func (h *BillHandler) AddRow(c *fiber.Ctx) error {
	out, err := h.drafts.AddRow(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveRow DELETE /api/bills/drafts/:id/rows/:pos.
func (h *BillHandler) RemoveRow(c *fiber.Ctx) error {
	pos, err := positionParam(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.drafts.RemoveRow(c.UserContext(), actorFrom(c), c.Params("id"), pos)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateRow PATCH /api/bills/drafts/:id/rows/:pos.
func (h *BillHandler) UpdateRow(c *fiber.Ctx) error {
	pos, err := positionParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateRowRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.drafts.UpdateRow(c.UserContext(), actorFrom(c), c.Params("id"), pos, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateAdjustments PATCH /api/bills/drafts/:id/adjustments.
func (h *BillHandler) UpdateAdjustments(c *fiber.Ctx) error {
	var in dto.UpdateAdjustmentsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.drafts.UpdateAdjustments(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus PATCH /api/bills/drafts/:id/status.
func (h *BillHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.drafts.UpdateStatus(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecordPayment POST /api/bills/drafts/:id/payments.
func (h *BillHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.drafts.RecordPayment(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DuplicateDraft POST /api/bills/drafts/:id/duplicate.
func (h *BillHandler) DuplicateDraft(c *fiber.Ctx) error {
	out, err := h.drafts.Duplicate(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DraftPDF GET /api/bills/drafts/:id/pdf.
func (h *BillHandler) DraftPDF(c *fiber.Ctx) error {
	out, filename, err := h.export.DraftPDF(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, out, filename, mimePDF)
}

// DraftXLSX GET /api/bills/drafts/:id/xlsx.
func (h *BillHandler) DraftXLSX(c *fiber.Ctx) error {
	out, filename, err := h.export.DraftXLSX(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, out, filename, mimeXLSX)
}

func sendAttachment(c *fiber.Ctx, body []byte, filename, mime string) error {
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}

func positionParam(c *fiber.Ctx) (int, error) {
	pos, err := strconv.Atoi(c.Params("pos"))
	if err != nil || pos < 0 {
		return 0, fmt.Errorf("%w: posición de fila inválida", domain.ErrInvalidInput)
	}
	return pos, nil
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al borrador"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
