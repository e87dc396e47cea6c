package quote

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines quote data storage.
type Repository interface {
	Create(ctx context.Context, q *Quote) error
	GetByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	List(ctx context.Context, f Filter) ([]*Quote, error)
	Update(ctx context.Context, q *Quote) error
	Delete(ctx context.Context, id uuid.UUID) error
}
