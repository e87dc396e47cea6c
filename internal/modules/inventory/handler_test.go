package inventory

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/dealer-backend/internal/modules/auth"
)

func withRole(req *http.Request, role auth.Role) *http.Request {
	return req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{Role: role}))
}

func TestVehicleEndpoints(t *testing.T) {
	svc, _, _ := newTestService()
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	body := `{"model":"Aurora","trim":"Style","fuelType":"Benzina","exteriorColor":"Nero Metallizzato",
		"transmission":"Manuale","accessories":["Navigatore"],"location":"Stock Dealer"}`

	// dealers can read but not write
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodPost, "/api/v1/vehicles", strings.NewReader(body)), auth.RoleDealer))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodPost, "/api/v1/vehicles", strings.NewReader(body)), auth.RoleAdmin))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created Vehicle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 23500.0, created.Price)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/"+created.ID.String(), nil), auth.RoleDealer))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/not-a-uuid", nil), auth.RoleDealer))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodPatch, "/api/v1/vehicles/"+created.ID.String()+"/status",
		strings.NewReader(`{"status":"reserved"}`)), auth.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"reserved"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodDelete, "/api/v1/vehicles/"+created.ID.String(), nil), auth.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodDelete, "/api/v1/vehicles/"+created.ID.String(), nil), auth.RoleAdmin))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/vehicles", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
