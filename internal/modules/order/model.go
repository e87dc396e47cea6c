package order

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Details tracks the paperwork an order goes through before delivery.
type Details struct {
	IsLicensable   bool       `json:"isLicensable"`
	HasProforma    bool       `json:"hasProforma"`
	IsPaid         bool       `json:"isPaid"`
	IsInvoiced     bool       `json:"isInvoiced"`
	HasConformity  bool       `json:"hasConformity"`
	ODLGenerated   bool       `json:"odlGenerated"`
	ODLGeneratedAt *time.Time `json:"odlGeneratedAt,omitempty"`
}

// Order is a dealer's order for one vehicle.
type Order struct {
	ID           uuid.UUID   `json:"id"`
	OrderNumber  string      `json:"orderNumber"`
	VehicleID    uuid.UUID   `json:"vehicleId"`
	DealerID     uuid.UUID   `json:"dealerId"`
	QuoteID      *uuid.UUID  `json:"quoteId,omitempty"`
	CustomerName string      `json:"customerName"`
	Status       OrderStatus `json:"status"`
	OrderDate    time.Time   `json:"orderDate"`
	DeliveryDate *time.Time  `json:"deliveryDate,omitempty"`
	Details      Details     `json:"details"`
	Notes        string      `json:"notes,omitempty"`
	Price        float64     `json:"price"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	DealerID  uuid.UUID
	VehicleID uuid.UUID
	Status    OrderStatus
}

func (f Filter) Matches(o *Order) bool {
	return (f.DealerID == uuid.Nil || o.DealerID == f.DealerID) &&
		(f.VehicleID == uuid.Nil || o.VehicleID == f.VehicleID) &&
		(f.Status == "" || o.Status == f.Status)
}

// PlaceOrderRequest is the payload for creating a new order. Price defaults
// to the vehicle's list price.
type PlaceOrderRequest struct {
	VehicleID    uuid.UUID  `json:"vehicleId"`
	DealerID     uuid.UUID  `json:"dealerId"`
	QuoteID      *uuid.UUID `json:"quoteId,omitempty"`
	CustomerName string     `json:"customerName"`
	Price        *float64   `json:"price,omitempty"`
	OrderDate    *time.Time `json:"orderDate,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// UpdateOrderRequest is a partial update of the editable order fields.
type UpdateOrderRequest struct {
	CustomerName *string    `json:"customerName"`
	Price        *float64   `json:"price"`
	OrderDate    *time.Time `json:"orderDate"`
	Notes        *string    `json:"notes"`
}

// UpdateDetailsRequest sets the given detail flags; nil flags are left as they are.
type UpdateDetailsRequest struct {
	IsLicensable  *bool `json:"isLicensable"`
	HasProforma   *bool `json:"hasProforma"`
	IsPaid        *bool `json:"isPaid"`
	IsInvoiced    *bool `json:"isInvoiced"`
	HasConformity *bool `json:"hasConformity"`
	ODLGenerated  *bool `json:"odlGenerated"`
}

// DeliverRequest optionally backdates the delivery.
type DeliverRequest struct {
	DeliveryDate *time.Time `json:"deliveryDate"`
}
