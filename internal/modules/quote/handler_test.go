package quote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/dealer-backend/internal/modules/auth"
)

func as(req *http.Request, c *auth.Claims) *http.Request {
	return req.WithContext(auth.WithClaims(req.Context(), c))
}

func TestQuoteEndpoints(t *testing.T) {
	f := newFixture(t)
	r := chi.NewRouter()
	NewHandler(f.quotes).RegisterRoutes(r)

	admin := &auth.Claims{Role: auth.RoleAdmin}
	dealer := &auth.Claims{Role: auth.RoleDealer, DealerID: f.dealerID}
	stranger := &auth.Claims{Role: auth.RoleDealer, DealerID: uuid.New()}

	body := `{"vehicleId":"` + f.vehicle.ID.String() + `","customerName":"Mario Rossi",
		"discount":1000,"licensePlateBonus":500}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body)), dealer))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, f.dealerID, created.DealerID)
	assert.Equal(t, 22350.0, created.FinalPrice)

	path := "/api/v1/quotes/" + created.ID.String()

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodGet, path, nil), stranger))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, path+"/approve", nil), dealer))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, path+"/reject", strings.NewReader(`{"reason":""}`)), admin))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, path+"/approve", nil), admin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"approved"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPatch, path, strings.NewReader(`{"notes":"ritiro a maggio"}`)), dealer))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"notes":"ritiro a maggio"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodDelete, path, nil), dealer))
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodDelete, path+"?confirm=true", nil), dealer))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodGet, path, nil), admin))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuoteListScopedToDealer(t *testing.T) {
	f := newFixture(t)
	f.create(t)
	r := chi.NewRouter()
	NewHandler(f.quotes).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodGet, "/api/v1/quotes?dealerId="+f.dealerID.String(), nil),
		&auth.Claims{Role: auth.RoleDealer, DealerID: uuid.New()}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodGet, "/api/v1/quotes?status=pending", nil),
		&auth.Claims{Role: auth.RoleAdmin}))
	require.Equal(t, http.StatusOK, rec.Code)
	var quotes []Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quotes))
	assert.Len(t, quotes, 1)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodGet, "/api/v1/quotes?dealerId=nope", nil),
		&auth.Claims{Role: auth.RoleAdmin}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
