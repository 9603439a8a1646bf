package repository

import (
	"context"

	"github.com/jhoicas/smart-billing/internal/domain/entity"
)

// DraftRepository define el puerto de almacenamiento de borradores.
// View y Update ejecutan fn con acceso exclusivo al borrador: ninguna otra
// mutación lo observa a medias.
type DraftRepository interface {
	Create(ctx context.Context, draft *entity.Draft) error
	// NextNumber devuelve el siguiente consecutivo de factura (1, 2, 3...).
	NextNumber(ctx context.Context) (int64, error)
	// View ejecuta fn en modo lectura. Retorna domain.ErrNotFound si no existe.
	View(ctx context.Context, id string, fn func(*entity.Draft) error) error
	// Update ejecuta fn en modo escritura; UpdatedAt queda actualizado solo si fn no falla.
	Update(ctx context.Context, id string, fn func(*entity.Draft) error) error
	// List ejecuta fn por cada borrador, del más reciente al más antiguo.
	List(ctx context.Context, fn func(*entity.Draft) error) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
