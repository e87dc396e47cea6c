package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// GetByNumber retrieves an order by its human-readable order number.
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)

	List(ctx context.Context, f Filter) ([]*Order, error)

	// Update replaces every mutable column of the order.
	Update(ctx context.Context, o *Order) error

	Delete(ctx context.Context, id uuid.UUID) error
}
