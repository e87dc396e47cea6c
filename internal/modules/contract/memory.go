package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/platform/memstore"
)

type memoryRepo struct{ contracts *memstore.Table[Contract] }

func NewMemoryRepository() Repository {
	return &memoryRepo{contracts: memstore.NewTable("contract", func(c *Contract) uuid.UUID { return c.ID })}
}

func (r *memoryRepo) Create(ctx context.Context, c *Contract) error {
	return r.contracts.Insert(clone(c))
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Contract, error) {
	c, err := r.contracts.Get(id)
	if err != nil {
		return nil, err
	}
	return clone(c), nil
}

func (r *memoryRepo) List(ctx context.Context, f Filter) ([]*Contract, error) {
	out := r.contracts.List(f.Matches)
	for i, c := range out {
		out[i] = clone(c)
	}
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, c *Contract) error {
	return r.contracts.Update(clone(c))
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error { return r.contracts.Delete(id) }
