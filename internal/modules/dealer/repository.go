package dealer

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for dealers.
type Repository interface {
	Create(ctx context.Context, d *Dealer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Dealer, error)
	GetByEmail(ctx context.Context, email string) (*Dealer, error)
	List(ctx context.Context, f Filter) ([]*Dealer, error)
	Update(ctx context.Context, d *Dealer) error
	Delete(ctx context.Context, id uuid.UUID) error
}
