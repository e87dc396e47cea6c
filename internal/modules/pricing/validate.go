package pricing

import (
	"fmt"

	"github.com/georgemunganga/dealer-backend/internal/platform/validation"
)

// ValidateInputs rejects negative amounts. Quote derivation itself trusts
// its inputs, so every entry point that accepts them calls this first.
func ValidateInputs(in QuoteInputs) error {
	v := validation.Violations{}
	ValidateInto(in, "", v)
	return v.Err()
}

// ValidateInto records violations for in under prefix.
func ValidateInto(in QuoteInputs, prefix string, v validation.Violations) {
	validation.NonNegative(prefix+"basePrice", in.BasePrice, v)
	validation.NonNegative(prefix+"discount", in.Discount, v)
	validation.NonNegative(prefix+"licensePlateBonus", in.LicensePlateBonus, v)
	validation.NonNegative(prefix+"tradeInBonus", in.TradeInBonus, v)
	validation.NonNegative(prefix+"tradeInValue", in.TradeInValue, v)
	validation.NonNegative(prefix+"safetyKit", in.SafetyKit, v)
	validation.NonNegative(prefix+"tradeInHandlingFee", in.TradeInHandlingFee, v)
	validation.NonNegative(prefix+"vatRate", in.VATRate, v)
	if in.RoadPreparationFee != nil {
		validation.NonNegative(prefix+"roadPreparationFee", *in.RoadPreparationFee, v)
	}
	for i, a := range in.Accessories {
		key := fmt.Sprintf("%saccessories[%d]", prefix, i)
		validation.Required(key+".name", a.Name, v)
		validation.NonNegative(key+".price", a.Price, v)
	}
}
