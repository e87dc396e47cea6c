package catalog

import "context"

// Repository stores the catalog configuration.
type Repository interface {
	// Load returns the stored catalog; an empty catalog when nothing is stored.
	Load(ctx context.Context) (*Catalog, error)

	// Replace swaps the whole catalog atomically.
	Replace(ctx context.Context, c *Catalog) error
}
