package dealer

import (
	"time"

	"github.com/google/uuid"
)

// Dealer is a reseller account. PasswordHash is never serialized.
type Dealer struct {
	ID           uuid.UUID `json:"id"`
	CompanyName  string    `json:"companyName"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Province     string    `json:"province"`
	ZipCode      string    `json:"zipCode"`
	IsActive     bool      `json:"isActive"`
	ContactName  string    `json:"contactName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	VATNumber    string    `json:"vatNumber"`
	LogoURL      string    `json:"logoUrl,omitempty"`
	CreditLimit  float64   `json:"creditLimit"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Credit is the dealer's credit position. CanPlaceOrder is informational.
type Credit struct {
	DealerID      uuid.UUID `json:"dealerId"`
	CreditLimit   float64   `json:"creditLimit"`
	Exposure      float64   `json:"exposure"`
	Available     float64   `json:"available"`
	CanPlaceOrder bool      `json:"canPlaceOrder"`
}

// Filter narrows List. A nil Active matches both states.
type Filter struct {
	Active *bool
}

func (f Filter) Matches(d *Dealer) bool {
	return f.Active == nil || d.IsActive == *f.Active
}

type CreateDealerRequest struct {
	CompanyName string  `json:"companyName"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Province    string  `json:"province"`
	ZipCode     string  `json:"zipCode"`
	ContactName string  `json:"contactName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	VATNumber   string  `json:"vatNumber"`
	CreditLimit float64 `json:"creditLimit"`
	// Password is optional; a dealer without one cannot log in.
	Password string `json:"password,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

type UpdateDealerRequest struct {
	CompanyName *string  `json:"companyName"`
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	Province    *string  `json:"province"`
	ZipCode     *string  `json:"zipCode"`
	ContactName *string  `json:"contactName"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	VATNumber   *string  `json:"vatNumber"`
	CreditLimit *float64 `json:"creditLimit"`
	Password    *string  `json:"password"`
}

type ActiveRequest struct {
	IsActive bool `json:"isActive"`
}
