package defect

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/memstore"
)

type memoryRepo struct{ reports *memstore.Table[Report] }

func NewMemoryRepository() Repository {
	return &memoryRepo{reports: memstore.NewTable("defect report", func(r *Report) uuid.UUID { return r.ID })}
}

func (m *memoryRepo) Create(ctx context.Context, r *Report) error {
	if len(m.reports.List(func(x *Report) bool { return x.CaseNumber == r.CaseNumber })) > 0 {
		return apperr.Conflict("case number " + r.CaseNumber + " already exists")
	}
	return m.reports.Insert(clone(r))
}

func (m *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	r, err := m.reports.Get(id)
	if err != nil {
		return nil, err
	}
	return clone(r), nil
}

func (m *memoryRepo) List(ctx context.Context, f Filter) ([]*Report, error) {
	out := m.reports.List(f.Matches)
	for i, r := range out {
		out[i] = clone(r)
	}
	return out, nil
}

func (m *memoryRepo) Update(ctx context.Context, r *Report) error { return m.reports.Update(clone(r)) }

func (m *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error { return m.reports.Delete(id) }
