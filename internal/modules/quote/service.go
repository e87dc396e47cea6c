package quote

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/modules/inventory"
	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/validation"
)

// VehicleSource looks up the vehicle a quote is for.
type VehicleSource interface {
	Get(ctx context.Context, id uuid.UUID) (*inventory.Vehicle, error)
}

// OrderPlacer turns a quote into an order and returns the order id.
type OrderPlacer interface {
	PlaceFromQuote(ctx context.Context, q *Quote) (uuid.UUID, error)
}

// Service defines quote business logic.
type Service interface {
	Create(ctx context.Context, req CreateQuoteRequest) (*Quote, error)
	Get(ctx context.Context, id uuid.UUID) (*Quote, error)
	List(ctx context.Context, f Filter) ([]*Quote, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateQuoteRequest) (*Quote, error)

	Approve(ctx context.Context, id uuid.UUID) (*Quote, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*Quote, error)
	// Revert moves an approved quote back to pending.
	Revert(ctx context.Context, id uuid.UUID) (*Quote, error)
	// Convert places an order for the quote and marks it converted.
	Convert(ctx context.Context, id uuid.UUID) (*Quote, error)

	// Delete removes the quote permanently.
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	vehicles VehicleSource
	orders   OrderPlacer
	calc     pricing.Calculator
	vatRate  float64
	now      func() time.Time
}

// NewService creates a new quote service. vatRate is the rate recorded on
// quotes that do not state one.
func NewService(repo Repository, vehicles VehicleSource, calc pricing.Calculator, vatRate float64) Service {
	return &service{repo: repo, vehicles: vehicles, calc: calc, vatRate: vatRate, now: time.Now}
}

// SetOrderPlacer wires conversion. It is separate from NewService because
// the order service is built after the quote service.
func SetOrderPlacer(s Service, p OrderPlacer) {
	if svc, ok := s.(*service); ok {
		svc.orders = p
	}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusRejected, StatusConverted},
	StatusApproved:  {StatusPending, StatusConverted},
	StatusRejected:  {},
	StatusConverted: {},
}

// CanTransition reports whether a quote may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *service) Create(ctx context.Context, req CreateQuoteRequest) (*Quote, error) {
	v := validation.Violations{}
	if req.VehicleID == uuid.Nil {
		v["vehicleId"] = "required"
	}
	if req.DealerID == uuid.Nil {
		v["dealerId"] = "required"
	}
	validation.Required("customerName", req.CustomerName, v)
	validation.Email("customerEmail", req.CustomerEmail, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.Get(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	q := &Quote{
		ID:                uuid.New(),
		VehicleID:         req.VehicleID,
		DealerID:          req.DealerID,
		CustomerName:      strings.TrimSpace(req.CustomerName),
		CustomerEmail:     strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:     req.CustomerPhone,
		Price:             vehicle.Price,
		Accessories:       req.Accessories,
		Discount:          req.Discount,
		LicensePlateBonus: req.LicensePlateBonus,
		TradeInBonus:      req.TradeInBonus,
		TradeIn:           req.TradeIn,
		SafetyKit:         req.SafetyKit,
		ReducedVAT:        req.ReducedVAT,
		VATRate:           s.vatRate,
		Status:            StatusPending,
		Notes:             req.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if q.Accessories == nil {
		q.Accessories = []pricing.AccessoryLine{}
	}
	if req.Price != nil {
		q.Price = *req.Price
	}
	if req.VATRate != nil {
		q.VATRate = *req.VATRate
	}

	in := q.Inputs()
	in.RoadPreparationFee = req.RoadPreparationFee
	if err := s.derive(q, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}
	return q, nil
}

// derive validates the inputs and rewrites the quote's totals.
func (s *service) derive(q *Quote, in pricing.QuoteInputs) error {
	v := validation.Violations{}
	pricing.ValidateInto(in, "", v)
	if q.TradeIn != nil {
		validation.NonNegative("tradeIn.value", q.TradeIn.Value, v)
		validation.NonNegative("tradeIn.handlingFee", q.TradeIn.HandlingFee, v)
	}
	if err := v.Err(); err != nil {
		return err
	}
	q.apply(s.calc.Quote(in))
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Quote, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f Filter) ([]*Quote, error) {
	return s.repo.List(ctx, f)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateQuoteRequest) (*Quote, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status == StatusConverted || q.Status == StatusRejected {
		return nil, apperr.InvalidState(fmt.Sprintf("cannot edit a %s quote", q.Status))
	}

	if req.CustomerName != nil {
		q.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.CustomerEmail != nil {
		q.CustomerEmail = strings.TrimSpace(*req.CustomerEmail)
	}
	if req.CustomerPhone != nil {
		q.CustomerPhone = *req.CustomerPhone
	}
	if req.Price != nil {
		q.Price = *req.Price
	}
	if req.Accessories != nil {
		q.Accessories = *req.Accessories
	}
	if req.Discount != nil {
		q.Discount = *req.Discount
	}
	if req.LicensePlateBonus != nil {
		q.LicensePlateBonus = *req.LicensePlateBonus
	}
	if req.TradeInBonus != nil {
		q.TradeInBonus = *req.TradeInBonus
	}
	if req.TradeIn != nil {
		q.TradeIn = req.TradeIn
	}
	if req.SafetyKit != nil {
		q.SafetyKit = *req.SafetyKit
	}
	if req.RoadPreparationFee != nil {
		q.RoadPreparationFee = *req.RoadPreparationFee
	}
	if req.ReducedVAT != nil {
		q.ReducedVAT = *req.ReducedVAT
	}
	if req.VATRate != nil {
		q.VATRate = *req.VATRate
	}
	if req.Notes != nil {
		q.Notes = *req.Notes
	}

	v := validation.Violations{}
	validation.Required("customerName", q.CustomerName, v)
	validation.Email("customerEmail", q.CustomerEmail, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.derive(q, q.Inputs()); err != nil {
		return nil, err
	}
	q.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}
	return q, nil
}

func (s *service) transition(ctx context.Context, id uuid.UUID, to Status, mutate func(*Quote) error) (*Quote, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(q.Status, to) {
		return nil, apperr.InvalidState(fmt.Sprintf("cannot transition quote from %s to %s", q.Status, to))
	}
	if mutate != nil {
		if err := mutate(q); err != nil {
			return nil, err
		}
	}
	q.Status = to
	q.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to update quote status: %w", err)
	}
	return q, nil
}

func (s *service) Approve(ctx context.Context, id uuid.UUID) (*Quote, error) {
	return s.transition(ctx, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, id uuid.UUID, reason string) (*Quote, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validation.Violations{"reason": "required"}.Err()
	}
	return s.transition(ctx, id, StatusRejected, func(q *Quote) error {
		q.RejectionReason = reason
		return nil
	})
}

func (s *service) Revert(ctx context.Context, id uuid.UUID) (*Quote, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusApproved {
		return nil, apperr.InvalidState(fmt.Sprintf("only approved quotes can be reverted (current: %s)", q.Status))
	}
	return s.transition(ctx, id, StatusPending, nil)
}

func (s *service) Convert(ctx context.Context, id uuid.UUID) (*Quote, error) {
	if s.orders == nil {
		return nil, fmt.Errorf("quote conversion is not configured")
	}
	return s.transition(ctx, id, StatusConverted, func(q *Quote) error {
		orderID, err := s.orders.PlaceFromQuote(ctx, q)
		if err != nil {
			return fmt.Errorf("failed to place order from quote: %w", err)
		}
		log.Printf("quote %s converted into order %s", q.ID, orderID)
		q.OrderID = &orderID
		return nil
	})
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
