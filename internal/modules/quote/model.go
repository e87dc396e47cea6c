package quote

import (
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
)

// Status represents the lifecycle state of a quote.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusConverted Status = "converted"
)

// TradeIn describes the customer's used car taken in part exchange.
type TradeIn struct {
	HasTradeIn  bool    `json:"hasTradeIn"`
	Make        string  `json:"make,omitempty"`
	Model       string  `json:"model,omitempty"`
	Year        int     `json:"year,omitempty"`
	Plate       string  `json:"plate,omitempty"`
	Value       float64 `json:"value"`
	HandlingFee float64 `json:"handlingFee"`
}

// Quote is a customer offer for one vehicle. AccessoryTotal, TotalDiscount
// and FinalPrice are derived and rewritten on every change.
type Quote struct {
	ID                 uuid.UUID               `json:"id"`
	VehicleID          uuid.UUID               `json:"vehicleId"`
	DealerID           uuid.UUID               `json:"dealerId"`
	CustomerName       string                  `json:"customerName"`
	CustomerEmail      string                  `json:"customerEmail"`
	CustomerPhone      string                  `json:"customerPhone"`
	Price              float64                 `json:"price"`
	Accessories        []pricing.AccessoryLine `json:"accessories"`
	Discount           float64                 `json:"discount"`
	LicensePlateBonus  float64                 `json:"licensePlateBonus"`
	TradeInBonus       float64                 `json:"tradeInBonus"`
	TradeIn            *TradeIn                `json:"tradeIn,omitempty"`
	SafetyKit          float64                 `json:"safetyKit"`
	RoadPreparationFee float64                 `json:"roadPreparationFee"`
	ReducedVAT         bool                    `json:"reducedVAT"`
	VATRate            float64                 `json:"vatRate"`
	AccessoryTotal     float64                 `json:"accessoryTotal"`
	TotalDiscount      float64                 `json:"totalDiscount"`
	FinalPrice         float64                 `json:"finalPrice"`
	Status             Status                  `json:"status"`
	RejectionReason    string                  `json:"rejectionReason,omitempty"`
	Notes              string                  `json:"notes,omitempty"`
	OrderID            *uuid.UUID              `json:"orderId,omitempty"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
}

// Inputs returns the figures the quote's totals are derived from.
func (q *Quote) Inputs() pricing.QuoteInputs {
	fee := q.RoadPreparationFee
	in := pricing.QuoteInputs{
		BasePrice:          q.Price,
		Accessories:        q.Accessories,
		Discount:           q.Discount,
		LicensePlateBonus:  q.LicensePlateBonus,
		TradeInBonus:       q.TradeInBonus,
		SafetyKit:          q.SafetyKit,
		RoadPreparationFee: &fee,
		ReducedVAT:         q.ReducedVAT,
		VATRate:            q.VATRate,
	}
	if q.TradeIn != nil && q.TradeIn.HasTradeIn {
		in.TradeInValue = q.TradeIn.Value
		in.TradeInHandlingFee = q.TradeIn.HandlingFee
	}
	return in
}

func (q *Quote) apply(b pricing.QuoteBreakdown) {
	q.RoadPreparationFee = b.RoadPreparationFee
	q.AccessoryTotal = b.AccessoryTotal
	q.TotalDiscount = b.TotalDiscount
	q.FinalPrice = b.FinalPrice
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	DealerID  uuid.UUID
	VehicleID uuid.UUID
	Status    Status
}

func (f Filter) Matches(q *Quote) bool {
	return (f.DealerID == uuid.Nil || q.DealerID == f.DealerID) &&
		(f.VehicleID == uuid.Nil || q.VehicleID == f.VehicleID) &&
		(f.Status == "" || q.Status == f.Status)
}

// CreateQuoteRequest is the payload for a new quote. Price defaults to the
// vehicle's list price and RoadPreparationFee to the configured default.
type CreateQuoteRequest struct {
	VehicleID          uuid.UUID               `json:"vehicleId"`
	DealerID           uuid.UUID               `json:"dealerId"`
	CustomerName       string                  `json:"customerName"`
	CustomerEmail      string                  `json:"customerEmail"`
	CustomerPhone      string                  `json:"customerPhone"`
	Price              *float64                `json:"price"`
	Accessories        []pricing.AccessoryLine `json:"accessories"`
	Discount           float64                 `json:"discount"`
	LicensePlateBonus  float64                 `json:"licensePlateBonus"`
	TradeInBonus       float64                 `json:"tradeInBonus"`
	TradeIn            *TradeIn                `json:"tradeIn"`
	SafetyKit          float64                 `json:"safetyKit"`
	RoadPreparationFee *float64                `json:"roadPreparationFee"`
	ReducedVAT         bool                    `json:"reducedVAT"`
	VATRate            *float64                `json:"vatRate"`
	Notes              string                  `json:"notes"`
}

// UpdateQuoteRequest is a partial update; nil fields are left untouched.
type UpdateQuoteRequest struct {
	CustomerName       *string                  `json:"customerName"`
	CustomerEmail      *string                  `json:"customerEmail"`
	CustomerPhone      *string                  `json:"customerPhone"`
	Price              *float64                 `json:"price"`
	Accessories        *[]pricing.AccessoryLine `json:"accessories"`
	Discount           *float64                 `json:"discount"`
	LicensePlateBonus  *float64                 `json:"licensePlateBonus"`
	TradeInBonus       *float64                 `json:"tradeInBonus"`
	TradeIn            *TradeIn                 `json:"tradeIn"`
	SafetyKit          *float64                 `json:"safetyKit"`
	RoadPreparationFee *float64                 `json:"roadPreparationFee"`
	ReducedVAT         *bool                    `json:"reducedVAT"`
	VATRate            *float64                 `json:"vatRate"`
	Notes              *string                  `json:"notes"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}
