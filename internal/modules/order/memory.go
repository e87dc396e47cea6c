package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/memstore"
)

type memoryRepo struct{ orders *memstore.Table[Order] }

func NewMemoryRepository() Repository {
	return &memoryRepo{orders: memstore.NewTable("order", func(o *Order) uuid.UUID { return o.ID })}
}

func (r *memoryRepo) Create(ctx context.Context, o *Order) error {
	if len(r.orders.List(func(x *Order) bool { return x.OrderNumber == o.OrderNumber })) > 0 {
		return apperr.Conflict("order number " + o.OrderNumber + " already exists")
	}
	return r.orders.Insert(clone(o))
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := r.orders.Get(id)
	if err != nil {
		return nil, err
	}
	return clone(o), nil
}

func (r *memoryRepo) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	found := r.orders.List(func(o *Order) bool { return o.OrderNumber == orderNumber })
	if len(found) == 0 {
		return nil, apperr.NotFound("order", orderNumber)
	}
	return clone(found[0]), nil
}

func (r *memoryRepo) List(ctx context.Context, f Filter) ([]*Order, error) {
	out := r.orders.List(f.Matches)
	for i, o := range out {
		out[i] = clone(o)
	}
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, o *Order) error { return r.orders.Update(clone(o)) }

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error { return r.orders.Delete(id) }

func clone(o *Order) *Order {
	c := *o
	if o.QuoteID != nil {
		id := *o.QuoteID
		c.QuoteID = &id
	}
	if o.DeliveryDate != nil {
		d := *o.DeliveryDate
		c.DeliveryDate = &d
	}
	if o.Details.ODLGeneratedAt != nil {
		d := *o.Details.ODLGeneratedAt
		c.Details.ODLGeneratedAt = &d
	}
	return &c
}
