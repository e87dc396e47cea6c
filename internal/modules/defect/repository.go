package defect

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for defect reports.
type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	List(ctx context.Context, f Filter) ([]*Report, error)
	Update(ctx context.Context, r *Report) error
	Delete(ctx context.Context, id uuid.UUID) error
}
