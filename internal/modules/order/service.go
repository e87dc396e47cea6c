package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/dealer-backend/internal/modules/inventory"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/validation"
)

// ErrODLNotGenerated is returned when delivering an order whose work order
// (ODL) has not been generated yet.
var ErrODLNotGenerated = apperr.InvalidState("ODL not generated")

// VehicleStore is the part of the vehicle service orders depend on.
type VehicleStore interface {
	Get(ctx context.Context, id uuid.UUID) (*inventory.Vehicle, error)
	SetStatus(ctx context.Context, id uuid.UUID, status inventory.Status, location string) (*inventory.Vehicle, error)
}

// Service defines the order management business logic.
type Service interface {
	// Place creates a processing order and marks the vehicle as ordered.
	Place(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, f Filter) ([]*Order, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*Order, error)

	// UpdateDetails sets paperwork flags.
	UpdateDetails(ctx context.Context, id uuid.UUID, req UpdateDetailsRequest) (*Order, error)

	// GenerateODL records that the work order has been generated.
	GenerateODL(ctx context.Context, id uuid.UUID) (*Order, error)

	// MarkDelivered delivers the order and moves the vehicle to dealer stock.
	// It fails with ErrODLNotGenerated, leaving the order untouched, until
	// GenerateODL has been called.
	MarkDelivered(ctx context.Context, id uuid.UUID, deliveryDate *time.Time) (*Order, error)

	// Cancel cancels a processing order and releases the vehicle.
	Cancel(ctx context.Context, id uuid.UUID) (*Order, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// OutstandingExposure sums the price of the dealer's processing orders.
	OutstandingExposure(ctx context.Context, dealerID uuid.UUID) (float64, error)
}

type service struct {
	repo          Repository
	vehicles      VehicleStore
	dealerStock   string
	now           func() time.Time
	orderNumberFn func() string
}

// NewService creates a new order service. dealerStock is the location a
// vehicle moves to on delivery.
func NewService(repo Repository, vehicles VehicleStore, dealerStock string) Service {
	return &service{
		repo:          repo,
		vehicles:      vehicles,
		dealerStock:   dealerStock,
		now:           time.Now,
		orderNumberFn: generateOrderNumber,
	}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusProcessing: {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func checkTransition(from, to OrderStatus) error {
	for _, s := range validTransitions[from] {
		if s == to {
			return nil
		}
	}
	return apperr.InvalidState(fmt.Sprintf("cannot transition order from %s to %s", from, to))
}

// orderable are the vehicle states an order can be placed from.
var orderable = map[inventory.Status]bool{
	inventory.StatusAvailable: true,
	inventory.StatusReserved:  true,
}

func (s *service) Place(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	v := validation.Violations{}
	if req.VehicleID == uuid.Nil {
		v["vehicleId"] = "required"
	}
	if req.DealerID == uuid.Nil {
		v["dealerId"] = "required"
	}
	validation.Required("customerName", req.CustomerName, v)
	if req.Price != nil {
		validation.NonNegative("price", *req.Price, v)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.Get(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !orderable[vehicle.Status] {
		return nil, apperr.InvalidState(fmt.Sprintf("vehicle %s is %s and cannot be ordered", vehicle.ID, vehicle.Status))
	}

	now := s.now().UTC()
	o := &Order{
		ID:           uuid.New(),
		OrderNumber:  s.orderNumberFn(),
		VehicleID:    req.VehicleID,
		DealerID:     req.DealerID,
		QuoteID:      req.QuoteID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Status:       StatusProcessing,
		OrderDate:    now,
		Notes:        req.Notes,
		Price:        vehicle.Price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Price != nil {
		o.Price = round2(*req.Price)
	}
	if req.OrderDate != nil {
		o.OrderDate = req.OrderDate.UTC()
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	if _, err := s.vehicles.SetStatus(ctx, o.VehicleID, inventory.StatusOrdered, ""); err != nil {
		if derr := s.repo.Delete(ctx, o.ID); derr != nil {
			log.Printf("order %s: vehicle update failed (%v) and rollback failed: %v", o.OrderNumber, err, derr)
		}
		return nil, fmt.Errorf("failed to reserve vehicle for order: %w", err)
	}
	return o, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetByNumber(ctx, orderNumber)
}

func (s *service) List(ctx context.Context, f Filter) ([]*Order, error) {
	return s.repo.List(ctx, f)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CustomerName != nil {
		o.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.Price != nil {
		o.Price = round2(*req.Price)
	}
	if req.OrderDate != nil {
		o.OrderDate = req.OrderDate.UTC()
	}
	if req.Notes != nil {
		o.Notes = *req.Notes
	}
	v := validation.Violations{}
	validation.Required("customerName", o.CustomerName, v)
	validation.NonNegative("price", o.Price, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) UpdateDetails(ctx context.Context, id uuid.UUID, req UpdateDetailsRequest) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&o.Details.IsLicensable, req.IsLicensable)
	set(&o.Details.HasProforma, req.HasProforma)
	set(&o.Details.IsPaid, req.IsPaid)
	set(&o.Details.IsInvoiced, req.IsInvoiced)
	set(&o.Details.HasConformity, req.HasConformity)
	if req.ODLGenerated != nil {
		if !*req.ODLGenerated && o.Status == StatusDelivered {
			return nil, apperr.InvalidState("cannot withdraw the ODL of a delivered order")
		}
		s.setODL(o, *req.ODLGenerated)
	}
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) setODL(o *Order, generated bool) {
	o.Details.ODLGenerated = generated
	if !generated {
		o.Details.ODLGeneratedAt = nil
		return
	}
	if o.Details.ODLGeneratedAt == nil {
		t := s.now().UTC()
		o.Details.ODLGeneratedAt = &t
	}
}

func (s *service) GenerateODL(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusCancelled {
		return nil, apperr.InvalidState("cannot generate the ODL of a cancelled order")
	}
	s.setODL(o, true)
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// MarkDelivered runs as a two-step saga: the order is delivered first, then
// the vehicle. A failed vehicle step reverts the order to processing.
func (s *service) MarkDelivered(ctx context.Context, id uuid.UUID, deliveryDate *time.Time) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(o.Status, StatusDelivered); err != nil {
		return nil, err
	}
	if !o.Details.ODLGenerated {
		return nil, ErrODLNotGenerated
	}

	previous := *o
	delivered := s.now().UTC()
	if deliveryDate != nil {
		delivered = deliveryDate.UTC()
	}
	o.Status = StatusDelivered
	o.DeliveryDate = &delivered
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}

	if _, err := s.vehicles.SetStatus(ctx, o.VehicleID, inventory.StatusDelivered, s.dealerStock); err != nil {
		previous.UpdatedAt = s.now().UTC()
		if rerr := s.repo.Update(ctx, &previous); rerr != nil {
			log.Printf("order %s: vehicle %s update failed (%v) and order revert failed: %v",
				o.OrderNumber, o.VehicleID, err, rerr)
		} else {
			log.Printf("order %s: vehicle %s update failed, order reverted to %s: %v",
				o.OrderNumber, o.VehicleID, previous.Status, err)
		}
		return nil, fmt.Errorf("failed to deliver vehicle %s: %w", o.VehicleID, err)
	}
	return o, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(o.Status, StatusCancelled); err != nil {
		return nil, err
	}
	o.Status = StatusCancelled
	if err := s.save(ctx, o); err != nil {
		return nil, err
	}
	s.releaseVehicle(ctx, o)
	return o, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if o.Status == StatusProcessing {
		s.releaseVehicle(ctx, o)
	}
	return nil
}

// releaseVehicle puts an ordered vehicle back on sale. Failures are logged
// only: the order change has already been stored.
func (s *service) releaseVehicle(ctx context.Context, o *Order) {
	v, err := s.vehicles.Get(ctx, o.VehicleID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			log.Printf("order %s: could not load vehicle %s to release it: %v", o.OrderNumber, o.VehicleID, err)
		}
		return
	}
	if v.Status != inventory.StatusOrdered {
		return
	}
	if _, err := s.vehicles.SetStatus(ctx, v.ID, inventory.StatusAvailable, ""); err != nil {
		log.Printf("order %s: could not release vehicle %s: %v", o.OrderNumber, v.ID, err)
	}
}

func (s *service) OutstandingExposure(ctx context.Context, dealerID uuid.UUID) (float64, error) {
	orders, err := s.repo.List(ctx, Filter{DealerID: dealerID, Status: StatusProcessing})
	if err != nil {
		return 0, err
	}
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(decimal.NewFromFloat(o.Price))
	}
	return total.Round(2).InexactFloat64(), nil
}

func (s *service) save(ctx context.Context, o *Order) error {
	o.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, o); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// generateOrderNumber creates a human-readable order number: ORD-YYYYMMDD-XXXX
func generateOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
