package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultVATRate is the percentage used to derive the missing accessory
// price when no rate is configured.
const DefaultVATRate = 22.0

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// ParseYAML decodes a catalog document, derives missing accessory prices
// at vatRate percent and validates the result.
func ParseYAML(data []byte, vatRate float64) (*Catalog, error) {
	c, err := decodeYAML(data)
	if err != nil {
		return nil, err
	}
	applyDefaults(c, vatRate)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeYAML(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	return &c, nil
}

// LoadFile reads a catalog from path.
func LoadFile(path string, vatRate float64) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return ParseYAML(data, vatRate)
}

// Default returns the catalog shipped with the binary at DefaultVATRate.
func Default() *Catalog { return DefaultAt(DefaultVATRate) }

// DefaultAt returns the shipped catalog with missing accessory prices
// derived at vatRate percent.
func DefaultAt(vatRate float64) *Catalog {
	c, err := ParseYAML(defaultCatalogYAML, vatRate)
	if err != nil {
		panic("embedded catalog is invalid: " + err.Error())
	}
	return c
}

// MarshalYAML encodes a catalog in the same format ParseYAML reads.
func MarshalYAML(c *Catalog) ([]byte, error) {
	return yaml.Marshal(c)
}

// applyDefaults fills accessory prices when only one of the two is given.
func applyDefaults(c *Catalog, vatRate float64) {
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(vatRate).Div(decimal.NewFromInt(100)))
	for i := range c.Accessories {
		a := &c.Accessories[i]
		switch {
		case a.PriceWithoutVAT == 0 && a.PriceWithVAT > 0:
			a.PriceWithoutVAT = decimal.NewFromFloat(a.PriceWithVAT).Div(factor).Round(2).InexactFloat64()
		case a.PriceWithVAT == 0 && a.PriceWithoutVAT > 0:
			a.PriceWithVAT = decimal.NewFromFloat(a.PriceWithoutVAT).Mul(factor).Round(2).InexactFloat64()
		}
	}
}
