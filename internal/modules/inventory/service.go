package inventory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/modules/catalog"
	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/validation"
)

// CatalogSource supplies the catalog vehicle prices are computed against.
type CatalogSource interface {
	GetCatalog(ctx context.Context) (*catalog.Catalog, error)
}

// Service defines vehicle stock business logic.
type Service interface {
	Create(ctx context.Context, req CreateVehicleRequest) (*Vehicle, error)
	Get(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	List(ctx context.Context, f Filter) ([]*Vehicle, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateVehicleRequest) (*Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// SetStatus changes the stock state and, when location is not empty, the location.
	SetStatus(ctx context.Context, id uuid.UUID, status Status, location string) (*Vehicle, error)

	// Reprice recomputes the price of every vehicle against the current catalog.
	Reprice(ctx context.Context) (int, error)
}

type service struct {
	repo     Repository
	catalogs CatalogSource
	now      func() time.Time
}

// NewService creates a new vehicle service.
func NewService(repo Repository, catalogs CatalogSource) Service {
	return &service{repo: repo, catalogs: catalogs, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CreateVehicleRequest) (*Vehicle, error) {
	now := s.now().UTC()
	v := &Vehicle{
		ID:               uuid.New(),
		Model:            strings.TrimSpace(req.Model),
		Trim:             strings.TrimSpace(req.Trim),
		FuelType:         req.FuelType,
		ExteriorColor:    req.ExteriorColor,
		Transmission:     req.Transmission,
		Accessories:      nonNil(req.Accessories),
		StockAccessories: nonNil(req.StockAccessories),
		Status:           req.Status,
		Location:         strings.TrimSpace(req.Location),
		Telaio:           strings.ToUpper(strings.TrimSpace(req.Telaio)),
		DateAdded:        now,
		VirtualConfig:    req.VirtualConfig,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if v.Status == "" {
		v.Status = StatusAvailable
	}
	if req.DateAdded != nil {
		v.DateAdded = req.DateAdded.UTC()
	}
	if err := s.prepare(ctx, v, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return v, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f Filter) ([]*Vehicle, error) {
	return s.repo.List(ctx, f)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateVehicleRequest) (*Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyUpdate(v, req)
	if err := s.prepare(ctx, v, v.ID); err != nil {
		return nil, err
	}
	v.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}
	return v, nil
}

func applyUpdate(v *Vehicle, req UpdateVehicleRequest) {
	if req.Model != nil {
		v.Model = strings.TrimSpace(*req.Model)
	}
	if req.Trim != nil {
		v.Trim = strings.TrimSpace(*req.Trim)
	}
	if req.FuelType != nil {
		v.FuelType = *req.FuelType
	}
	if req.ExteriorColor != nil {
		v.ExteriorColor = *req.ExteriorColor
	}
	if req.Transmission != nil {
		v.Transmission = *req.Transmission
	}
	if req.Accessories != nil {
		v.Accessories = nonNil(*req.Accessories)
	}
	if req.StockAccessories != nil {
		v.StockAccessories = nonNil(*req.StockAccessories)
	}
	if req.Status != nil {
		v.Status = *req.Status
	}
	if req.Location != nil {
		v.Location = strings.TrimSpace(*req.Location)
	}
	if req.Telaio != nil {
		v.Telaio = strings.ToUpper(strings.TrimSpace(*req.Telaio))
	}
	if req.DateAdded != nil {
		v.DateAdded = req.DateAdded.UTC()
	}
	if req.VirtualConfig != nil {
		v.VirtualConfig = req.VirtualConfig
	}
}

// prepare validates v and sets its price. self is the id allowed to already
// hold v's telaio.
func (s *service) prepare(ctx context.Context, v *Vehicle, self uuid.UUID) error {
	violations := validation.Violations{}
	validation.Required("model", v.Model, violations)
	validation.OneOf("status", string(v.Status), statuses, violations)
	if err := violations.Err(); err != nil {
		return err
	}

	if v.Telaio != "" {
		existing, err := s.repo.GetByTelaio(ctx, v.Telaio)
		switch {
		case err == nil && existing.ID != self:
			return fmt.Errorf("%w: telaio %s already registered", apperr.ErrConflict, v.Telaio)
		case err != nil && !errors.Is(err, apperr.ErrNotFound):
			return err
		}
	}
	return s.price(ctx, v)
}

func (s *service) price(ctx context.Context, v *Vehicle) error {
	cat, err := s.catalogs.GetCatalog(ctx)
	if err != nil {
		return err
	}
	res, err := pricing.VehiclePrice(cat, v.Selection())
	if err != nil {
		var pending *pricing.PendingError
		if errors.As(err, &pending) {
			return validation.Violations{pending.Field: "price_pending"}.Err()
		}
		return err
	}
	v.Price = res.Price
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status Status, location string) (*Vehicle, error) {
	violations := validation.Violations{}
	validation.OneOf("status", string(status), statuses, violations)
	if err := violations.Err(); err != nil {
		return nil, err
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Status = status
	if location != "" && location != v.Location {
		v.Location = location
		// leaving or entering virtual stock changes the price; a selection
		// that does not resolve keeps the stored price
		previous := v.Price
		if err := s.price(ctx, v); err != nil {
			var verr *validation.Error
			if !errors.As(err, &verr) {
				return nil, err
			}
			v.Price = previous
			log.Printf("vehicle %s moved to %s with price pending (%v); keeping price %.2f",
				v.ID, location, verr, previous)
		}
	}
	v.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to update vehicle status: %w", err)
	}
	return v, nil
}

// Reprice skips vehicles whose configuration no longer resolves and keeps
// their stored price.
func (s *service) Reprice(ctx context.Context) (int, error) {
	vehicles, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, v := range vehicles {
		old := v.Price
		if err := s.price(ctx, v); err != nil {
			var verr *validation.Error
			if errors.As(err, &verr) {
				continue
			}
			return changed, err
		}
		if v.Price == old {
			continue
		}
		v.UpdatedAt = s.now().UTC()
		if err := s.repo.Update(ctx, v); err != nil {
			return changed, fmt.Errorf("failed to reprice vehicle %s: %w", v.ID, err)
		}
		changed++
	}
	return changed, nil
}
