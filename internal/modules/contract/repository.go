package contract

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for dealer contracts.
type Repository interface {
	Create(ctx context.Context, c *Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	List(ctx context.Context, f Filter) ([]*Contract, error)
	Update(ctx context.Context, c *Contract) error
	Delete(ctx context.Context, id uuid.UUID) error
}
