package auth

import (
	"context"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDealer Role = "dealer"
)

// Claims are carried in every issued token.
type Claims struct {
	jwt.StandardClaims
	Role     Role      `json:"role"`
	DealerID uuid.UUID `json:"dealerId,omitempty"`
	Email    string    `json:"email"`
}

func (c *Claims) IsAdmin() bool { return c != nil && c.Role == RoleAdmin }

// CanAccessDealer reports whether the caller may see records owned by dealerID.
func (c *Claims) CanAccessDealer(dealerID uuid.UUID) bool {
	if c == nil {
		return false
	}
	return c.Role == RoleAdmin || c.DealerID == dealerID
}

// DealerAuthenticator verifies dealer credentials. It returns the dealer id
// of an active dealer whose password matches.
type DealerAuthenticator interface {
	AuthenticateDealer(ctx context.Context, email, password string) (uuid.UUID, error)
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ParseToken(token string) (*Claims, error)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt int64     `json:"expiresAt"`
	Role      Role      `json:"role"`
	DealerID  uuid.UUID `json:"dealerId,omitempty"`
}
