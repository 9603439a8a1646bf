// Package memory implementa los repositorios en memoria del proceso.
// Los datos se pierden al reiniciar.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/smart-billing/internal/domain"
	"github.com/jhoicas/smart-billing/internal/domain/entity"
)

// DraftRepository implementa repository.DraftRepository con un mapa protegido por RWMutex.
type DraftRepository struct {
	mu     sync.RWMutex
	drafts map[string]*entity.Draft
	seq    int64
	now    func() time.Time
}

// NewDraftRepository construye el repositorio vacío.
func NewDraftRepository() *DraftRepository {
	return &DraftRepository{
		drafts: make(map[string]*entity.Draft),
		now:    time.Now,
	}
}

// Create guarda el borrador; genera ID si viene vacío.
func (r *DraftRepository) Create(ctx context.Context, draft *entity.Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if draft == nil || draft.Engine == nil {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	if _, exists := r.drafts[draft.ID]; exists {
		return fmt.Errorf("%w: borrador %s ya existe", domain.ErrInvalidInput, draft.ID)
	}
	now := r.now()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now
	r.drafts[draft.ID] = draft
	return nil
}

// NextNumber incrementa y devuelve el consecutivo.
func (r *DraftRepository) NextNumber(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

// View ejecuta fn bajo lock de lectura.
func (r *DraftRepository) View(ctx context.Context, id string, fn func(*entity.Draft) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drafts[id]
	if !ok {
		return domain.ErrNotFound
	}
	return fn(d)
}

// Update ejecuta fn bajo lock de escritura.
func (r *DraftRepository) Update(ctx context.Context, id string, fn func(*entity.Draft) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if !ok {
		return domain.ErrNotFound
	}
	// UpdatedAt se fija antes de fn para que fn vea la fecha de esta mutación.
	prev := d.UpdatedAt
	d.UpdatedAt = r.now()
	if err := fn(d); err != nil {
		d.UpdatedAt = prev
		return err
	}
	return nil
}

// List recorre los borradores del más reciente al más antiguo.
func (r *DraftRepository) List(ctx context.Context, fn func(*entity.Draft) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*entity.Draft, 0, len(r.drafts))
	for _, d := range r.drafts {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].Number > all[j].Number
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	for _, d := range all {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

// Delete elimina el borrador.
func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drafts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.drafts, id)
	return nil
}

// Count número de borradores activos.
func (r *DraftRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drafts), nil
}
