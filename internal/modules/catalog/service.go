package catalog

import (
	"context"
	"fmt"
	"log"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
)

// Service defines catalog business logic.
type Service interface {
	GetCatalog(ctx context.Context) (*Catalog, error)
	ReplaceCatalog(ctx context.Context, c *Catalog) (*Catalog, error)

	// Options returns the records compatible with a model and, optionally, a trim.
	Options(ctx context.Context, modelRef, trimRef string) (*Options, error)

	// SeedIfEmpty stores c when the repository holds no catalog yet.
	SeedIfEmpty(ctx context.Context, c *Catalog) (bool, error)
}

// Options is the filtered view a configurator shows for a model/trim pair.
type Options struct {
	Model         VehicleModel    `json:"model"`
	Trim          *VehicleTrim    `json:"trim,omitempty"`
	Trims         []VehicleTrim   `json:"trims"`
	FuelTypes     []FuelType      `json:"fuelTypes"`
	Colors        []ExteriorColor `json:"colors"`
	Transmissions []Transmission  `json:"transmissions"`
	Accessories   []Accessory     `json:"accessories"`
}

type service struct {
	repo    Repository
	vatRate float64
}

// NewService creates a catalog service. vatRate (percent) derives the
// accessory price a stored catalog leaves out.
func NewService(repo Repository, vatRate float64) Service {
	return &service{repo: repo, vatRate: vatRate}
}

func (s *service) GetCatalog(ctx context.Context) (*Catalog, error) {
	return s.repo.Load(ctx)
}

func (s *service) ReplaceCatalog(ctx context.Context, c *Catalog) (*Catalog, error) {
	applyDefaults(c, s.vatRate)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to store catalog: %w", err)
	}
	return c, nil
}

func (s *service) Options(ctx context.Context, modelRef, trimRef string) (*Options, error) {
	c, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := c.Model(modelRef)
	if !ok {
		return nil, apperr.NotFound("model", modelRef)
	}
	opts := &Options{
		Model:         *m,
		Trims:         c.TrimsFor(m.ID),
		FuelTypes:     c.FuelTypesFor(m.ID),
		Colors:        c.ColorsFor(m.ID),
		Transmissions: c.TransmissionsFor(m.ID),
	}
	trimID := ""
	if trimRef != "" {
		t, ok := c.Trim(trimRef)
		if !ok {
			return nil, apperr.NotFound("trim", trimRef)
		}
		if !t.CompatibleModels.Allows(m.ID) {
			return nil, fmt.Errorf("%w: trim %s is not available on %s", apperr.ErrInvalidState, t.Name, m.Name)
		}
		opts.Trim = t
		trimID = t.ID
	}
	opts.Accessories = c.AccessoriesFor(m.ID, trimID)
	return opts, nil
}

func (s *service) SeedIfEmpty(ctx context.Context, c *Catalog) (bool, error) {
	current, err := s.repo.Load(ctx)
	if err != nil {
		return false, err
	}
	if !current.Empty() {
		return false, nil
	}
	if _, err := s.ReplaceCatalog(ctx, c); err != nil {
		return false, err
	}
	log.Printf("catalog: seeded %d models, %d accessories", len(c.Models), len(c.Accessories))
	return true, nil
}
