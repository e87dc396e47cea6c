package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/memstore"
)

type memoryRepo struct{ vehicles *memstore.Table[Vehicle] }

func NewMemoryRepository() Repository {
	return &memoryRepo{vehicles: memstore.NewTable("vehicle", func(v *Vehicle) uuid.UUID { return v.ID })}
}

func (r *memoryRepo) Create(ctx context.Context, v *Vehicle) error {
	return r.vehicles.Insert(clone(v))
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	v, err := r.vehicles.Get(id)
	if err != nil {
		return nil, err
	}
	return clone(v), nil
}

func (r *memoryRepo) GetByTelaio(ctx context.Context, telaio string) (*Vehicle, error) {
	found := r.vehicles.List(func(v *Vehicle) bool { return v.Telaio == telaio })
	if len(found) == 0 {
		return nil, apperr.NotFound("vehicle with telaio", telaio)
	}
	return clone(found[0]), nil
}

func (r *memoryRepo) List(ctx context.Context, f Filter) ([]*Vehicle, error) {
	out := r.vehicles.List(f.Matches)
	for i, v := range out {
		out[i] = clone(v)
	}
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, v *Vehicle) error {
	return r.vehicles.Update(clone(v))
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.vehicles.Delete(id)
}

// clone copies the slices the table would otherwise share with callers.
func clone(v *Vehicle) *Vehicle {
	c := *v
	c.Accessories = append([]string{}, v.Accessories...)
	c.StockAccessories = append([]string{}, v.StockAccessories...)
	if v.VirtualConfig != nil {
		c.VirtualConfig = append([]byte(nil), v.VirtualConfig...)
	}
	return &c
}
