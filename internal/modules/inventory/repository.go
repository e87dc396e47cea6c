package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines vehicle data storage.
type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	// GetByTelaio returns apperr.ErrNotFound when no vehicle carries the chassis number.
	GetByTelaio(ctx context.Context, telaio string) (*Vehicle, error)
	List(ctx context.Context, f Filter) ([]*Vehicle, error)
	Update(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
}
