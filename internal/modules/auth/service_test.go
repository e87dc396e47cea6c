package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/dealer-backend/internal/config"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
)

type fakeDealers struct {
	id       uuid.UUID
	email    string
	password string
}

func (f fakeDealers) AuthenticateDealer(_ context.Context, email, password string) (uuid.UUID, error) {
	if email != f.email {
		return uuid.Nil, apperr.NotFound("dealer", email)
	}
	if password != f.password {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return f.id, nil
}

func newTestService(t *testing.T, dealers DealerAuthenticator) Service {
	t.Helper()
	svc, err := NewService(config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		AdminEmail:    "admin@dealer.local",
		AdminPassword: "s3cret",
	}, dealers)
	require.NoError(t, err)
	return svc
}

func TestLoginAdmin(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Login(context.Background(), "Admin@Dealer.local", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, resp.Role)

	claims, err := svc.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, "admin@dealer.local", claims.Email)
}

func TestLoginDealer(t *testing.T) {
	id := uuid.New()
	svc := newTestService(t, fakeDealers{id: id, email: "rossi@example.com", password: "pw"})

	resp, err := svc.Login(context.Background(), "rossi@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, RoleDealer, resp.Role)

	claims, err := svc.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.DealerID)
	assert.True(t, claims.CanAccessDealer(id))
	assert.False(t, claims.CanAccessDealer(uuid.New()))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t, fakeDealers{id: uuid.New(), email: "rossi@example.com", password: "pw"})

	cases := map[string][2]string{
		"wrong admin password":  {"admin@dealer.local", "nope"},
		"wrong dealer password": {"rossi@example.com", "nope"},
		"unknown email":         {"ghost@example.com", "pw"},
		"empty":                 {"", ""},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), c[0], c[1])
			assert.ErrorIs(t, err, apperr.ErrUnauthorized)
		})
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestService(t, nil)
	other, err := NewService(config.AuthConfig{JWTSecret: "other", TokenTTL: time.Hour,
		AdminEmail: "admin@dealer.local", AdminPassword: "s3cret"}, nil)
	require.NoError(t, err)

	resp, err := other.Login(context.Background(), "admin@dealer.local", "s3cret")
	require.NoError(t, err)

	_, err = svc.ParseToken(resp.Token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := newTestService(t, nil).(*service)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	resp, err := svc.Login(context.Background(), "admin@dealer.local", "s3cret")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ParseToken(resp.Token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
