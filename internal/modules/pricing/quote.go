package pricing

import "github.com/shopspring/decimal"

// DefaultRoadPreparationFee applies when a quote leaves the fee unset.
const DefaultRoadPreparationFee = 350.0

type AccessoryLine struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// QuoteInputs are the dealer-entered figures of a quote. Amounts are
// expected to be non-negative; callers validate them.
type QuoteInputs struct {
	BasePrice          float64         `json:"basePrice"`
	Accessories        []AccessoryLine `json:"accessories"`
	Discount           float64         `json:"discount"`
	LicensePlateBonus  float64         `json:"licensePlateBonus"`
	TradeInBonus       float64         `json:"tradeInBonus"`
	TradeInValue       float64         `json:"tradeInValue"`
	SafetyKit          float64         `json:"safetyKit"`
	TradeInHandlingFee float64         `json:"tradeInHandlingFee"`
	// RoadPreparationFee is nil when the dealer did not enter one.
	RoadPreparationFee *float64 `json:"roadPreparationFee"`
	ReducedVAT         bool     `json:"reducedVAT"`
	VATRate            float64  `json:"vatRate"`
}

// QuoteBreakdown is the derived side of a quote. ReducedVAT and VATRate are
// echoed for display and take no part in FinalPrice.
type QuoteBreakdown struct {
	BasePrice          float64 `json:"basePrice"`
	AccessoryTotal     float64 `json:"accessoryTotal"`
	RoadPreparationFee float64 `json:"roadPreparationFee"`
	TotalDiscount      float64 `json:"totalDiscount"`
	TradeInValue       float64 `json:"tradeInValue"`
	SafetyKit          float64 `json:"safetyKit"`
	TradeInHandlingFee float64 `json:"tradeInHandlingFee"`
	FinalPrice         float64 `json:"finalPrice"`
	ReducedVAT         bool    `json:"reducedVAT"`
	VATRate            float64 `json:"vatRate"`
}

// Calculator derives quote totals with a configured default road fee.
type Calculator struct {
	RoadPreparationFee float64
}

func NewCalculator(defaultRoadFee float64) Calculator {
	return Calculator{RoadPreparationFee: defaultRoadFee}
}

// QuoteFinalPrice derives a quote using DefaultRoadPreparationFee.
func QuoteFinalPrice(in QuoteInputs) QuoteBreakdown {
	return NewCalculator(DefaultRoadPreparationFee).Quote(in)
}

// Quote derives the totals of a quote:
//
//	totalDiscount = discount + licensePlateBonus + tradeInBonus
//	finalPrice    = max(0, base + accessories + roadFee - totalDiscount - tradeInValue + safetyKit + handlingFee)
func (c Calculator) Quote(in QuoteInputs) QuoteBreakdown {
	roadFee := c.RoadPreparationFee
	if in.RoadPreparationFee != nil {
		roadFee = *in.RoadPreparationFee
	}

	accessories := decimal.Zero
	for _, a := range in.Accessories {
		accessories = accessories.Add(decimal.NewFromFloat(a.Price))
	}
	discount := sum(in.Discount, in.LicensePlateBonus, in.TradeInBonus)

	final := decimal.NewFromFloat(in.BasePrice).
		Add(accessories).
		Add(decimal.NewFromFloat(roadFee)).
		Sub(discount).
		Sub(decimal.NewFromFloat(in.TradeInValue)).
		Add(decimal.NewFromFloat(in.SafetyKit)).
		Add(decimal.NewFromFloat(in.TradeInHandlingFee))
	if final.IsNegative() {
		final = decimal.Zero
	}

	return QuoteBreakdown{
		BasePrice:          in.BasePrice,
		AccessoryTotal:     money(accessories),
		RoadPreparationFee: roadFee,
		TotalDiscount:      money(discount),
		TradeInValue:       in.TradeInValue,
		SafetyKit:          in.SafetyKit,
		TradeInHandlingFee: in.TradeInHandlingFee,
		FinalPrice:         money(final),
		ReducedVAT:         in.ReducedVAT,
		VATRate:            in.VATRate,
	}
}

func sum(vals ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, v := range vals {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total
}

func money(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }
