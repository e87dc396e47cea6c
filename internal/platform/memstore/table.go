// Package memstore provides the in-memory tables behind the local fallback
// backend. Each module's memory repository owns one Table per entity.
package memstore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
)

// Table stores values of T keyed by id, preserving insertion order.
// Values are copied in and out, so callers never share a row with the table.
type Table[T any] struct {
	mu    sync.RWMutex
	name  string
	idOf  func(*T) uuid.UUID
	rows  map[uuid.UUID]T
	order []uuid.UUID
}

// NewTable creates an empty table. name is used in not-found errors.
func NewTable[T any](name string, idOf func(*T) uuid.UUID) *Table[T] {
	return &Table[T]{
		name: name,
		idOf: idOf,
		rows: make(map[uuid.UUID]T),
	}
}

func (t *Table[T]) Insert(v *T) error {
	id := t.idOf(v)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; ok {
		return apperr.ErrConflict
	}
	t.rows[id] = *v
	t.order = append(t.order, id)
	return nil
}

func (t *Table[T]) Get(id uuid.UUID) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		return nil, apperr.NotFound(t.name, id.String())
	}
	return &v, nil
}

// Update replaces the stored row. Last write wins.
func (t *Table[T]) Update(v *T) error {
	id := t.idOf(v)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return apperr.NotFound(t.name, id.String())
	}
	t.rows[id] = *v
	return nil
}

func (t *Table[T]) Delete(id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return apperr.NotFound(t.name, id.String())
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns matching rows, newest first. A nil filter matches everything.
func (t *Table[T]) List(filter func(*T) bool) []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*T, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		v := t.rows[t.order[i]]
		if filter == nil || filter(&v) {
			out = append(out, &v)
		}
	}
	return out
}

func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
