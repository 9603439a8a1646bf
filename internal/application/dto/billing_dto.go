package dto

import (
	"bytes"
	"encoding/json"
)

// Input texto digitado en un campo numérico. Acepta string, número o null en JSON
// y conserva el texto tal cual; la interpretación la hace el motor de totales.
type Input string

// UnmarshalJSON acepta "2.5", 2.5 y null.
func (in *Input) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*in = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*in = Input(s)
		return nil
	}
	*in = Input(b)
	return nil
}

// CreateDraftRequest body para POST /api/bills/drafts.
type CreateDraftRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	CustomerContact string `json:"customer_contact,omitempty"`
	TaxRate         Input  `json:"tax_rate,omitempty"`
	Discount        Input  `json:"discount,omitempty"`
	AdvanceAmount   Input  `json:"advance_amount,omitempty"`
}

// UpdateRowRequest body para PATCH /api/bills/drafts/:id/rows/:pos.
// Solo se aplican los campos presentes.
type UpdateRowRequest struct {
	Description *string `json:"description,omitempty"`
	Quantity    *Input  `json:"quantity,omitempty"`
	Rate        *Input  `json:"rate,omitempty"`
}

// UpdateAdjustmentsRequest body para PATCH /api/bills/drafts/:id/adjustments.
type UpdateAdjustmentsRequest struct {
	TaxRate       *Input `json:"tax_rate,omitempty"`
	Discount      *Input `json:"discount,omitempty"`
	AdvanceAmount *Input `json:"advance_amount,omitempty"`
}

// UpdateStatusRequest body para PATCH /api/bills/drafts/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"` // draft | sent | paid | cancelled
}

// RecordPaymentRequest body para POST /api/bills/drafts/:id/payments.
type RecordPaymentRequest struct {
	PaymentAmount Input `json:"payment_amount"`
}

// CalculateRequest body para POST /api/bills/calculate (sin estado).
type CalculateRequest struct {
	Items         []CalculateItemRequest `json:"items"`
	TaxRate       Input                  `json:"tax_rate,omitempty"`
	Discount      Input                  `json:"discount,omitempty"`
	AdvanceAmount Input                  `json:"advance_amount,omitempty"`
}

// CalculateItemRequest línea en un cálculo sin estado.
type CalculateItemRequest struct {
	Description string `json:"description,omitempty"`
	Quantity    Input  `json:"quantity"`
	Rate        Input  `json:"rate"`
}

// LineItemResponse fila de la tabla de ítems.
type LineItemResponse struct {
	Position    int    `json:"position"`
	FieldPrefix string `json:"field_prefix"` // items[N]
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
	Total       string `json:"total"` // 2 decimales
}

// TotalsResponse totales derivados con 2 decimales y su versión formateada en moneda.
type TotalsResponse struct {
	Subtotal        string          `json:"subtotal"`
	TaxAmount       string          `json:"tax_amount"`
	TotalAmount     string          `json:"total_amount"`
	RemainingAmount string          `json:"remaining_amount"`
	Currency        string          `json:"currency"`
	Formatted       FormattedTotals `json:"formatted"`
}

// FormattedTotals totales listos para mostrar (símbolo y separadores).
type FormattedTotals struct {
	Subtotal        string `json:"subtotal"`
	TaxAmount       string `json:"tax_amount"`
	TotalAmount     string `json:"total_amount"`
	RemainingAmount string `json:"remaining_amount"`
}

// AdjustmentsResponse ajustes tal como fueron digitados.
type AdjustmentsResponse struct {
	TaxRate       string `json:"tax_rate"`
	Discount      string `json:"discount"`
	AdvanceAmount string `json:"advance_amount"`
}

// BillResponse resultado de un cálculo: filas, ajustes y totales.
type BillResponse struct {
	Items       []LineItemResponse  `json:"items"`
	Adjustments AdjustmentsResponse `json:"adjustments"`
	Totals      TotalsResponse      `json:"totals"`
}

// DraftResponse borrador completo para GET /api/bills/drafts/:id.
type DraftResponse struct {
	ID              string `json:"id"`
	Number          string `json:"number"`
	OwnerID         string `json:"owner_id"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	CustomerContact string `json:"customer_contact,omitempty"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	PaidAt          string `json:"paid_at,omitempty"`
	BillResponse
}

// DraftSummary borrador en listados.
type DraftSummary struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	OwnerID      string `json:"owner_id"`
	CustomerName string `json:"customer_name"`
	Status       string `json:"status"`
	ItemCount    int    `json:"item_count"`
	TotalAmount  string `json:"total_amount"`
	UpdatedAt    string `json:"updated_at"`
}

// DraftListResponse respuesta de GET /api/bills/drafts.
type DraftListResponse struct {
	Items []DraftSummary `json:"items"`
	Page  PageResponse   `json:"page"`
}

// RowAddedResponse respuesta de POST /api/bills/drafts/:id/rows.
type RowAddedResponse struct {
	Row   LineItemResponse `json:"row"`
	Draft DraftResponse    `json:"draft"`
}
