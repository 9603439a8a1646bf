package entity

import (
	"time"

	"github.com/jhoicas/smart-billing/internal/domain/bill"
)

// DraftStatus estado de cobro de la factura.
type DraftStatus string

const (
	StatusDraft     DraftStatus = "draft"
	StatusSent      DraftStatus = "sent"
	StatusPaid      DraftStatus = "paid"
	StatusCancelled DraftStatus = "cancelled"
)

// ParseDraftStatus valida un estado recibido como texto.
func ParseDraftStatus(s string) (DraftStatus, bool) {
	switch st := DraftStatus(s); st {
	case StatusDraft, StatusSent, StatusPaid, StatusCancelled:
		return st, true
	}
	return "", false
}

// Draft factura en edición. Vive solo en memoria mientras el proceso corre.
type Draft struct {
	ID              string
	Number          string // ej. INV-000001
	OwnerID         string
	CustomerName    string
	CustomerEmail   string
	CustomerContact string
	Status          DraftStatus
	Engine          *bill.Engine
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PaidAt          time.Time // cero mientras no esté pagada
}

// CanAccess indica si el usuario puede ver o modificar el borrador.
func (d *Draft) CanAccess(userID, role string) bool {
	return role == RoleAdmin || d.OwnerID == userID
}

// CanDelete una factura pagada no se elimina.
func (d *Draft) CanDelete() bool {
	return d.Status != StatusPaid
}

// RoleAdmin rol con acceso a todos los borradores.
const RoleAdmin = "admin"
