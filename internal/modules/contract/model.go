package contract

import (
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
)

// Status represents the lifecycle state of a contract.
type Status string

const (
	StatusActive    Status = "attivo"
	StatusCompleted Status = "completato"
)

// Contractor is the customer signing the contract.
type Contractor struct {
	Name       string `json:"name"`
	FiscalCode string `json:"fiscalCode"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// Details is stored as a single document. Breakdown is derived from Pricing
// on every write.
type Details struct {
	Contractor    Contractor             `json:"contractor"`
	Pricing       pricing.QuoteInputs    `json:"pricing"`
	Breakdown     pricing.QuoteBreakdown `json:"breakdown"`
	PaymentTerms  string                 `json:"paymentTerms,omitempty"`
	DeliveryTerms string                 `json:"deliveryTerms,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
}

// Contract is a sale contract between a dealer and its customer.
type Contract struct {
	ID              uuid.UUID `json:"id"`
	DealerID        uuid.UUID `json:"dealerId"`
	VehicleID       uuid.UUID `json:"vehicleId"`
	ContractDate    time.Time `json:"contractDate"`
	ContractDetails Details   `json:"contractDetails"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Filter struct {
	DealerID  uuid.UUID
	VehicleID uuid.UUID
	Status    Status
}

func (f Filter) Matches(c *Contract) bool {
	return (f.DealerID == uuid.Nil || c.DealerID == f.DealerID) &&
		(f.VehicleID == uuid.Nil || c.VehicleID == f.VehicleID) &&
		(f.Status == "" || c.Status == f.Status)
}

// DetailsInput is the writable part of Details.
type DetailsInput struct {
	Contractor    Contractor          `json:"contractor"`
	Pricing       pricing.QuoteInputs `json:"pricing"`
	PaymentTerms  string              `json:"paymentTerms"`
	DeliveryTerms string              `json:"deliveryTerms"`
	Notes         string              `json:"notes"`
}

type CreateContractRequest struct {
	DealerID        uuid.UUID    `json:"dealerId"`
	VehicleID       uuid.UUID    `json:"vehicleId"`
	ContractDate    *time.Time   `json:"contractDate"`
	ContractDetails DetailsInput `json:"contractDetails"`
}

// UpdateContractRequest replaces the details document when it is present.
type UpdateContractRequest struct {
	ContractDate    *time.Time    `json:"contractDate"`
	ContractDetails *DetailsInput `json:"contractDetails"`
}

func clone(c *Contract) *Contract {
	out := *c
	p := &out.ContractDetails.Pricing
	p.Accessories = append([]pricing.AccessoryLine(nil), c.ContractDetails.Pricing.Accessories...)
	if c.ContractDetails.Pricing.RoadPreparationFee != nil {
		fee := *c.ContractDetails.Pricing.RoadPreparationFee
		p.RoadPreparationFee = &fee
	}
	return &out
}
