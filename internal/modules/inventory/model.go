package inventory

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
)

// Status is a vehicle's stock state.
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusSold      Status = "sold"
	StatusOrdered   Status = "ordered"
	StatusDelivered Status = "delivered"
)

var statuses = []string{
	string(StatusAvailable), string(StatusReserved), string(StatusSold),
	string(StatusOrdered), string(StatusDelivered),
}

// Vehicle is a configured car held in stock. Price is always derived from
// the catalog and the configuration; it is never edited directly.
type Vehicle struct {
	ID               uuid.UUID       `json:"id"`
	Model            string          `json:"model"`
	Trim             string          `json:"trim"`
	FuelType         string          `json:"fuelType"`
	ExteriorColor    string          `json:"exteriorColor"`
	Transmission     string          `json:"transmission"`
	Accessories      []string        `json:"accessories"`
	StockAccessories []string        `json:"stockAccessories"`
	Price            float64         `json:"price"`
	Status           Status          `json:"status"`
	Location         string          `json:"location"`
	Telaio           string          `json:"telaio"`
	DateAdded        time.Time       `json:"dateAdded"`
	VirtualConfig    json.RawMessage `json:"virtualConfig,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Selection returns the configuration the pricing engine works on.
func (v *Vehicle) Selection() pricing.Selection {
	return pricing.Selection{
		Model:            v.Model,
		Trim:             v.Trim,
		FuelType:         v.FuelType,
		Color:            v.ExteriorColor,
		Transmission:     v.Transmission,
		Accessories:      v.Accessories,
		StockAccessories: v.StockAccessories,
		Location:         v.Location,
	}
}

// IsVirtual reports whether the vehicle is not physically built yet.
func (v *Vehicle) IsVirtual() bool { return v.Location == pricing.VirtualStockLocation }

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Status   Status
	Location string
	Model    string
}

func (f Filter) Matches(v *Vehicle) bool {
	return (f.Status == "" || v.Status == f.Status) &&
		(f.Location == "" || v.Location == f.Location) &&
		(f.Model == "" || v.Model == f.Model)
}

// CreateVehicleRequest holds data for adding a vehicle to stock.
type CreateVehicleRequest struct {
	Model            string          `json:"model"`
	Trim             string          `json:"trim"`
	FuelType         string          `json:"fuelType"`
	ExteriorColor    string          `json:"exteriorColor"`
	Transmission     string          `json:"transmission"`
	Accessories      []string        `json:"accessories"`
	StockAccessories []string        `json:"stockAccessories"`
	Status           Status          `json:"status"`
	Location         string          `json:"location"`
	Telaio           string          `json:"telaio"`
	DateAdded        *time.Time      `json:"dateAdded"`
	VirtualConfig    json.RawMessage `json:"virtualConfig"`
}

// UpdateVehicleRequest is a partial update; nil fields are left untouched.
type UpdateVehicleRequest struct {
	Model            *string         `json:"model"`
	Trim             *string         `json:"trim"`
	FuelType         *string         `json:"fuelType"`
	ExteriorColor    *string         `json:"exteriorColor"`
	Transmission     *string         `json:"transmission"`
	Accessories      *[]string       `json:"accessories"`
	StockAccessories *[]string       `json:"stockAccessories"`
	Status           *Status         `json:"status"`
	Location         *string         `json:"location"`
	Telaio           *string         `json:"telaio"`
	DateAdded        *time.Time      `json:"dateAdded"`
	VirtualConfig    json.RawMessage `json:"virtualConfig"`
}

type StatusRequest struct {
	Status   Status `json:"status"`
	Location string `json:"location"`
}
