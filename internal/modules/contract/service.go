package contract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/modules/inventory"
	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/validation"
)

// VehicleSource checks the contracted vehicle exists.
type VehicleSource interface {
	Get(ctx context.Context, id uuid.UUID) (*inventory.Vehicle, error)
}

// Service defines dealer contract business logic.
type Service interface {
	Create(ctx context.Context, req CreateContractRequest) (*Contract, error)
	Get(ctx context.Context, id uuid.UUID) (*Contract, error)
	List(ctx context.Context, f Filter) ([]*Contract, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateContractRequest) (*Contract, error)
	// Complete closes an active contract. Completed contracts are read-only.
	Complete(ctx context.Context, id uuid.UUID) (*Contract, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	vehicles VehicleSource
	calc     pricing.Calculator
	now      func() time.Time
}

func NewService(repo Repository, vehicles VehicleSource, calc pricing.Calculator) Service {
	return &service{repo: repo, vehicles: vehicles, calc: calc, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CreateContractRequest) (*Contract, error) {
	v := validation.Violations{}
	if req.DealerID == uuid.Nil {
		v["dealerId"] = "required"
	}
	if req.VehicleID == uuid.Nil {
		v["vehicleId"] = "required"
	}
	validateDetails(req.ContractDetails, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if _, err := s.vehicles.Get(ctx, req.VehicleID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := &Contract{
		ID:           uuid.New(),
		DealerID:     req.DealerID,
		VehicleID:    req.VehicleID,
		ContractDate: now,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.ContractDate != nil {
		c.ContractDate = req.ContractDate.UTC()
	}
	c.ContractDetails = s.derive(req.ContractDetails)

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}
	return c, nil
}

// derive builds the stored details, pinning the road fee the breakdown used.
func (s *service) derive(in DetailsInput) Details {
	b := s.calc.Quote(in.Pricing)
	p := in.Pricing
	fee := b.RoadPreparationFee
	p.RoadPreparationFee = &fee
	if p.Accessories == nil {
		p.Accessories = []pricing.AccessoryLine{}
	}
	in.Contractor.Name = strings.TrimSpace(in.Contractor.Name)
	in.Contractor.FiscalCode = strings.ToUpper(strings.TrimSpace(in.Contractor.FiscalCode))
	return Details{
		Contractor:    in.Contractor,
		Pricing:       p,
		Breakdown:     b,
		PaymentTerms:  in.PaymentTerms,
		DeliveryTerms: in.DeliveryTerms,
		Notes:         in.Notes,
	}
}

func validateDetails(in DetailsInput, v validation.Violations) {
	validation.Required("contractDetails.contractor.name", in.Contractor.Name, v)
	validation.Email("contractDetails.contractor.email", in.Contractor.Email, v)
	pricing.ValidateInto(in.Pricing, "contractDetails.pricing.", v)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Contract, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f Filter) ([]*Contract, error) {
	return s.repo.List(ctx, f)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateContractRequest) (*Contract, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusCompleted {
		return nil, apperr.InvalidState("cannot edit a completed contract")
	}
	if req.ContractDetails != nil {
		v := validation.Violations{}
		validateDetails(*req.ContractDetails, v)
		if err := v.Err(); err != nil {
			return nil, err
		}
		c.ContractDetails = s.derive(*req.ContractDetails)
	}
	if req.ContractDate != nil {
		c.ContractDate = req.ContractDate.UTC()
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Complete(ctx context.Context, id uuid.UUID) (*Contract, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusActive {
		return nil, apperr.InvalidState(fmt.Sprintf("cannot complete a contract that is %s", c.Status))
	}
	c.Status = StatusCompleted
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) save(ctx context.Context, c *Contract) error {
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}
	return nil
}
