package contract

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

func TestContractEndpoints(t *testing.T) {
	svc, vehicleID := newTestService()
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	dealer := &auth.Claims{Role: auth.RoleDealer, DealerID: uuid.New()}
	admin := &auth.Claims{Role: auth.RoleAdmin}

	body := `{"vehicleId":"` + vehicleID.String() + `","contractDetails":{
		"contractor":{"name":"Mario Rossi"},
		"pricing":{"basePrice":20000,"roadPreparationFee":0}}}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, "/api/v1/contracts", strings.NewReader(body)), dealer))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created Contract
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, dealer.DealerID, created.DealerID)
	assert.Equal(t, 20000.0, created.ContractDetails.Breakdown.FinalPrice)
	assert.Equal(t, "attivo", string(created.Status))

	path := "/api/v1/contracts/" + created.ID.String()

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodGet, path, nil),
		&auth.Claims{Role: auth.RoleDealer, DealerID: uuid.New()}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, path+"/complete", nil), dealer))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"completato"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, path+"/complete", nil), dealer))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodDelete, path, nil), dealer))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodDelete, path, nil), admin))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
