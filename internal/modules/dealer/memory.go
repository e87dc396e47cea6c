package dealer

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/memstore"
)

type memoryRepo struct{ dealers *memstore.Table[Dealer] }

func NewMemoryRepository() Repository {
	return &memoryRepo{dealers: memstore.NewTable("dealer", func(d *Dealer) uuid.UUID { return d.ID })}
}

func (r *memoryRepo) Create(ctx context.Context, d *Dealer) error {
	if _, err := r.GetByEmail(ctx, d.Email); err == nil {
		return apperr.Conflict("dealer email " + d.Email + " already exists")
	}
	c := *d
	return r.dealers.Insert(&c)
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Dealer, error) {
	return r.dealers.Get(id)
}

func (r *memoryRepo) GetByEmail(ctx context.Context, email string) (*Dealer, error) {
	found := r.dealers.List(func(d *Dealer) bool { return strings.EqualFold(d.Email, email) })
	if len(found) == 0 {
		return nil, apperr.NotFound("dealer", email)
	}
	return found[0], nil
}

func (r *memoryRepo) List(ctx context.Context, f Filter) ([]*Dealer, error) {
	return r.dealers.List(f.Matches), nil
}

func (r *memoryRepo) Update(ctx context.Context, d *Dealer) error {
	c := *d
	return r.dealers.Update(&c)
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error { return r.dealers.Delete(id) }
