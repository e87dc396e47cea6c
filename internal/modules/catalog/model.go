package catalog

import (
	"fmt"
	"strings"

	"github.com/georgemunganga/dealer-backend/internal/platform/validation"
)

// Kind tags a catalog record in storage.
type Kind string

const (
	KindModel        Kind = "model"
	KindTrim         Kind = "trim"
	KindFuelType     Kind = "fuel_type"
	KindColor        Kind = "color"
	KindTransmission Kind = "transmission"
	KindAccessory    Kind = "accessory"
)

// VehicleModel is the root of the compatibility graph.
type VehicleModel struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	BasePrice float64 `json:"basePrice" yaml:"basePrice"`
}

type VehicleTrim struct {
	ID               string        `json:"id" yaml:"id"`
	Name             string        `json:"name" yaml:"name"`
	BasePrice        float64       `json:"basePrice" yaml:"basePrice"`
	CompatibleModels Compatibility `json:"compatibleModels" yaml:"compatibleModels"`
}

// Option is a priced choice filtered against the model only.
type Option struct {
	ID               string        `json:"id" yaml:"id"`
	Name             string        `json:"name" yaml:"name"`
	PriceAdjustment  float64       `json:"priceAdjustment" yaml:"priceAdjustment"`
	CompatibleModels Compatibility `json:"compatibleModels" yaml:"compatibleModels"`
}

type (
	FuelType      = Option
	ExteriorColor = Option
	Transmission  = Option
)

type Accessory struct {
	ID               string        `json:"id" yaml:"id"`
	Name             string        `json:"name" yaml:"name"`
	PriceWithVAT     float64       `json:"priceWithVAT" yaml:"priceWithVAT"`
	PriceWithoutVAT  float64       `json:"priceWithoutVAT" yaml:"priceWithoutVAT"`
	CompatibleModels Compatibility `json:"compatibleModels" yaml:"compatibleModels"`
	CompatibleTrims  Compatibility `json:"compatibleTrims" yaml:"compatibleTrims"`
}

// Compatible reports whether the accessory fits the model and trim.
func (a Accessory) Compatible(modelID, trimID string) bool {
	return a.CompatibleModels.Allows(modelID) && a.CompatibleTrims.Allows(trimID)
}

// Catalog is a full snapshot of the configuration store.
type Catalog struct {
	Models        []VehicleModel  `json:"models" yaml:"models"`
	Trims         []VehicleTrim   `json:"trims" yaml:"trims"`
	FuelTypes     []FuelType      `json:"fuelTypes" yaml:"fuelTypes"`
	Colors        []ExteriorColor `json:"colors" yaml:"colors"`
	Transmissions []Transmission  `json:"transmissions" yaml:"transmissions"`
	Accessories   []Accessory     `json:"accessories" yaml:"accessories"`
}

// Empty reports whether the catalog has no models.
func (c *Catalog) Empty() bool { return c == nil || len(c.Models) == 0 }

// Records are looked up by id first, then by case-insensitive name, so
// vehicles saved with display names still resolve.
func matches(id, name, ref string) bool {
	return id == ref || strings.EqualFold(name, ref)
}

func (c *Catalog) Model(ref string) (*VehicleModel, bool) {
	for i := range c.Models {
		if matches(c.Models[i].ID, c.Models[i].Name, ref) {
			return &c.Models[i], true
		}
	}
	return nil, false
}

func (c *Catalog) Trim(ref string) (*VehicleTrim, bool) {
	for i := range c.Trims {
		if matches(c.Trims[i].ID, c.Trims[i].Name, ref) {
			return &c.Trims[i], true
		}
	}
	return nil, false
}

func (c *Catalog) FuelType(ref string) (*FuelType, bool) { return findOption(c.FuelTypes, ref) }

func (c *Catalog) Color(ref string) (*ExteriorColor, bool) { return findOption(c.Colors, ref) }

func (c *Catalog) Transmission(ref string) (*Transmission, bool) {
	return findOption(c.Transmissions, ref)
}

func (c *Catalog) Accessory(ref string) (*Accessory, bool) {
	for i := range c.Accessories {
		if matches(c.Accessories[i].ID, c.Accessories[i].Name, ref) {
			return &c.Accessories[i], true
		}
	}
	return nil, false
}

func findOption(opts []Option, ref string) (*Option, bool) {
	for i := range opts {
		if matches(opts[i].ID, opts[i].Name, ref) {
			return &opts[i], true
		}
	}
	return nil, false
}

// TrimsFor returns the trims available on a model.
func (c *Catalog) TrimsFor(modelID string) []VehicleTrim {
	out := []VehicleTrim{}
	for _, t := range c.Trims {
		if t.CompatibleModels.Allows(modelID) {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalog) FuelTypesFor(modelID string) []FuelType { return optionsFor(c.FuelTypes, modelID) }

func (c *Catalog) ColorsFor(modelID string) []ExteriorColor { return optionsFor(c.Colors, modelID) }

func (c *Catalog) TransmissionsFor(modelID string) []Transmission {
	return optionsFor(c.Transmissions, modelID)
}

// AccessoriesFor returns accessories compatible with both the model and the
// trim. An empty trimID skips the trim check.
func (c *Catalog) AccessoriesFor(modelID, trimID string) []Accessory {
	out := []Accessory{}
	for _, a := range c.Accessories {
		if !a.CompatibleModels.Allows(modelID) {
			continue
		}
		if trimID != "" && !a.CompatibleTrims.Allows(trimID) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func optionsFor(opts []Option, modelID string) []Option {
	out := []Option{}
	for _, o := range opts {
		if o.CompatibleModels.Allows(modelID) {
			out = append(out, o)
		}
	}
	return out
}

// Validate checks ids are unique per kind, compatibility lists only reference
// known models and trims, and prices are not negative.
func (c *Catalog) Validate() error {
	v := validation.Violations{}
	models := map[string]bool{}
	for i, m := range c.Models {
		key := fmt.Sprintf("models[%d]", i)
		checkRecord(key, m.ID, m.Name, models, v)
		validation.NonNegative(key+".basePrice", m.BasePrice, v)
	}
	if len(c.Models) == 0 {
		v["models"] = "required"
	}

	trims := map[string]bool{}
	for i, t := range c.Trims {
		key := fmt.Sprintf("trims[%d]", i)
		checkRecord(key, t.ID, t.Name, trims, v)
		validation.NonNegative(key+".basePrice", t.BasePrice, v)
		checkRefs(key+".compatibleModels", t.CompatibleModels, models, v)
	}

	for name, opts := range map[string][]Option{
		"fuelTypes": c.FuelTypes, "colors": c.Colors, "transmissions": c.Transmissions,
	} {
		seen := map[string]bool{}
		for i, o := range opts {
			key := fmt.Sprintf("%s[%d]", name, i)
			checkRecord(key, o.ID, o.Name, seen, v)
			checkRefs(key+".compatibleModels", o.CompatibleModels, models, v)
		}
	}

	accessories := map[string]bool{}
	for i, a := range c.Accessories {
		key := fmt.Sprintf("accessories[%d]", i)
		checkRecord(key, a.ID, a.Name, accessories, v)
		validation.NonNegative(key+".priceWithVAT", a.PriceWithVAT, v)
		validation.NonNegative(key+".priceWithoutVAT", a.PriceWithoutVAT, v)
		checkRefs(key+".compatibleModels", a.CompatibleModels, models, v)
		checkRefs(key+".compatibleTrims", a.CompatibleTrims, trims, v)
	}
	return v.Err()
}

func checkRecord(key, id, name string, seen map[string]bool, v validation.Violations) {
	validation.Required(key+".id", id, v)
	validation.Required(key+".name", name, v)
	if id != "" && seen[id] {
		v[key+".id"] = "duplicate"
	}
	seen[id] = true
}

func checkRefs(key string, c Compatibility, known map[string]bool, v validation.Violations) {
	for _, id := range c.IDs() {
		if !known[id] {
			v[key] = "unknown_reference"
			return
		}
	}
}

// Clone returns a deep copy safe to hand to callers.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return &Catalog{}
	}
	return &Catalog{
		Models:        append([]VehicleModel{}, c.Models...),
		Trims:         append([]VehicleTrim{}, c.Trims...),
		FuelTypes:     append([]Option{}, c.FuelTypes...),
		Colors:        append([]Option{}, c.Colors...),
		Transmissions: append([]Option{}, c.Transmissions...),
		Accessories:   append([]Accessory{}, c.Accessories...),
	}
}
