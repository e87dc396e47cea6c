// Package pricing computes vehicle list prices from the catalog and derives
// quote totals. Every function here is pure: no I/O and no shared state.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/dealer-backend/internal/modules/catalog"
)

// VirtualStockLocation marks vehicles that are not physically built yet.
// They are priced at 0 until configured.
const VirtualStockLocation = "Stock Virtuale"

var ErrPricePending = errors.New("price pending")

// PendingError names the base selection that could not be resolved.
type PendingError struct {
	Field string
	Ref   string
}

func (e *PendingError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("price pending: %s not selected", e.Field)
	}
	return fmt.Sprintf("price pending: unknown %s %q", e.Field, e.Ref)
}

func (e *PendingError) Is(target error) bool { return target == ErrPricePending }

// Selection is a vehicle configuration. References are catalog ids or names.
type Selection struct {
	Model            string   `json:"model"`
	Trim             string   `json:"trim"`
	FuelType         string   `json:"fuelType"`
	Color            string   `json:"exteriorColor"`
	Transmission     string   `json:"transmission"`
	Accessories      []string `json:"accessories"`
	StockAccessories []string `json:"stockAccessories"`
	Location         string   `json:"location"`
}

type Line struct {
	Kind   catalog.Kind `json:"kind"`
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Amount float64      `json:"amount"`
}

type Result struct {
	Price   float64 `json:"price"`
	Lines   []Line  `json:"lines"`
	Virtual bool    `json:"virtual"`
	// SkippedAccessories lists selected accessories left out of the price,
	// either incompatible, already standard equipment or unknown.
	SkippedAccessories []string `json:"skippedAccessories"`
}

// VehiclePrice returns the list price of sel against cat.
func VehiclePrice(cat *catalog.Catalog, sel Selection) (*Result, error) {
	if sel.Location == VirtualStockLocation {
		return &Result{Price: 0, Lines: []Line{}, Virtual: true, SkippedAccessories: []string{}}, nil
	}

	model, ok := cat.Model(sel.Model)
	if !ok {
		return nil, &PendingError{Field: "model", Ref: sel.Model}
	}
	trim, ok := cat.Trim(sel.Trim)
	if !ok {
		return nil, &PendingError{Field: "trim", Ref: sel.Trim}
	}
	fuel, ok := cat.FuelType(sel.FuelType)
	if !ok {
		return nil, &PendingError{Field: "fuelType", Ref: sel.FuelType}
	}
	color, ok := cat.Color(sel.Color)
	if !ok {
		return nil, &PendingError{Field: "exteriorColor", Ref: sel.Color}
	}
	transmission, ok := cat.Transmission(sel.Transmission)
	if !ok {
		return nil, &PendingError{Field: "transmission", Ref: sel.Transmission}
	}

	res := &Result{
		Lines: []Line{
			{Kind: catalog.KindModel, ID: model.ID, Name: model.Name, Amount: model.BasePrice},
			{Kind: catalog.KindTrim, ID: trim.ID, Name: trim.Name, Amount: trim.BasePrice},
			{Kind: catalog.KindFuelType, ID: fuel.ID, Name: fuel.Name, Amount: fuel.PriceAdjustment},
			{Kind: catalog.KindColor, ID: color.ID, Name: color.Name, Amount: color.PriceAdjustment},
			{Kind: catalog.KindTransmission, ID: transmission.ID, Name: transmission.Name, Amount: transmission.PriceAdjustment},
		},
		SkippedAccessories: []string{},
	}

	stock := make(map[string]bool, len(sel.StockAccessories))
	for _, ref := range sel.StockAccessories {
		stock[ref] = true
		if a, ok := cat.Accessory(ref); ok {
			stock[a.ID] = true
		}
	}
	counted := map[string]bool{}
	for _, ref := range sel.Accessories {
		a, ok := cat.Accessory(ref)
		if !ok || !a.Compatible(model.ID, trim.ID) || stock[a.ID] || stock[a.Name] {
			res.SkippedAccessories = append(res.SkippedAccessories, ref)
			continue
		}
		if counted[a.ID] {
			continue
		}
		counted[a.ID] = true
		res.Lines = append(res.Lines, Line{Kind: catalog.KindAccessory, ID: a.ID, Name: a.Name, Amount: a.PriceWithVAT})
	}

	total := decimal.Zero
	for _, l := range res.Lines {
		total = total.Add(decimal.NewFromFloat(l.Amount))
	}
	res.Price = total.Round(2).InexactFloat64()
	return res, nil
}
