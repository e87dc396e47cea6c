package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/dealer-backend/internal/config"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)

type service struct {
	secret     []byte
	ttl        time.Duration
	adminEmail string
	adminHash  []byte
	dealers    DealerAuthenticator
	now        func() time.Time
}

// NewService creates a new auth service. The admin password is hashed once
// here so it is never compared in plain text.
func NewService(cfg config.AuthConfig, dealers DealerAuthenticator) (Service, error) {
	s := &service{
		secret:     []byte(cfg.JWTSecret),
		ttl:        cfg.TokenTTL,
		adminEmail: strings.ToLower(cfg.AdminEmail),
		dealers:    dealers,
		now:        time.Now,
	}
	if len(s.secret) == 0 {
		s.secret = []byte(uuid.NewString())
	}
	if cfg.AdminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
		s.adminHash = hash
	}
	return s, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errInvalidCredentials
	}

	if email == s.adminEmail && s.adminHash != nil {
		if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)); err != nil {
			return nil, errInvalidCredentials
		}
		return s.issue(email, RoleAdmin, uuid.Nil)
	}

	if s.dealers == nil {
		return nil, errInvalidCredentials
	}
	dealerID, err := s.dealers.AuthenticateDealer(ctx, email, password)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrUnauthorized) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	return s.issue(email, RoleDealer, dealerID)
}

func (s *service) issue(email string, role Role, dealerID uuid.UUID) (*LoginResponse, error) {
	expirationTime := s.now().Add(s.ttl)
	subject := email
	if dealerID != uuid.Nil {
		subject = dealerID.String()
	}
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  s.now().Unix(),
			ExpiresAt: expirationTime.Unix(),
		},
		Role:     role,
		DealerID: dealerID,
		Email:    email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Token:     tokenString,
		ExpiresAt: expirationTime.Unix(),
		Role:      role,
		DealerID:  dealerID,
	}, nil
}

func (s *service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	return claims, nil
}
