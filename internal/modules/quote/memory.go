package quote

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
	"github.com/georgemunganga/dealer-backend/internal/platform/memstore"
)

type memoryRepo struct{ quotes *memstore.Table[Quote] }

func NewMemoryRepository() Repository {
	return &memoryRepo{quotes: memstore.NewTable("quote", func(q *Quote) uuid.UUID { return q.ID })}
}

func (r *memoryRepo) Create(ctx context.Context, q *Quote) error { return r.quotes.Insert(clone(q)) }

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	q, err := r.quotes.Get(id)
	if err != nil {
		return nil, err
	}
	return clone(q), nil
}

func (r *memoryRepo) List(ctx context.Context, f Filter) ([]*Quote, error) {
	out := r.quotes.List(f.Matches)
	for i, q := range out {
		out[i] = clone(q)
	}
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, q *Quote) error { return r.quotes.Update(clone(q)) }

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error { return r.quotes.Delete(id) }

func clone(q *Quote) *Quote {
	c := *q
	c.Accessories = append([]pricing.AccessoryLine{}, q.Accessories...)
	if q.TradeIn != nil {
		t := *q.TradeIn
		c.TradeIn = &t
	}
	if q.OrderID != nil {
		id := *q.OrderID
		c.OrderID = &id
	}
	return &c
}
