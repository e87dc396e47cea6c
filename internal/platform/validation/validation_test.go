package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	NonNegative("price", -1, v)
	Email("email", "not-an-email", v)
	Email("altEmail", "", v)
	OneOf("status", "lost", []string{"open", "rejected"}, v)

	assert.Equal(t, Violations{
		"name":   "required",
		"price":  "must_not_be_negative",
		"email":  "invalid_email",
		"status": "invalid_value",
	}, v)
	assert.EqualError(t, v.Err(),
		"invalid request (email: invalid_email, name: required, price: must_not_be_negative, status: invalid_value)")
}

func TestEmptyViolationsIsNil(t *testing.T) {
	v := Violations{}
	Required("name", "Rossi", v)
	NonNegative("price", 0, v)
	assert.NoError(t, v.Err())
}
