package catalog

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu      sync.RWMutex
	catalog *Catalog
}

// NewMemoryRepository returns an in-memory catalog store holding initial.
func NewMemoryRepository(initial *Catalog) Repository {
	return &memoryRepo{catalog: initial.Clone()}
}

func (r *memoryRepo) Load(ctx context.Context) (*Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Clone(), nil
}

func (r *memoryRepo) Replace(ctx context.Context, c *Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog = c.Clone()
	return nil
}
