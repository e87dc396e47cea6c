package defect

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
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

func TestDefectEndpoints(t *testing.T) {
	f := newFixture(t)
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r)

	admin := &auth.Claims{Role: auth.RoleAdmin}
	dealer := &auth.Claims{Role: auth.RoleDealer, DealerID: f.dealerID}

	body := `{"vehicleId":"` + f.vehicleID.String() + `","description":"paraurti rotto","repairCost":900}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, "/api/v1/defects", strings.NewReader(body)), dealer))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, f.dealerID, created.DealerID)

	path := "/api/v1/defects/" + created.ID.String()

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPatch, path, strings.NewReader(`{"adminNotes":"ok"}`)), dealer))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, path+"/review", strings.NewReader(`{"status":"approved"}`)), dealer))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("kind", "repair_quote"))
	fw, err := mw.CreateFormFile("file", "preventivo.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("pdf"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path+"/attachments", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(req, dealer))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"repairQuoteUrl":"/uploads/defects_`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, path+"/review",
		strings.NewReader(`{"status":"partially_approved","approvedAmount":300}`)), admin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"approvedAmount":300`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodGet, path, nil),
		&auth.Claims{Role: auth.RoleDealer, DealerID: uuid.New()}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodGet, "/api/v1/defects?status=partially_approved", nil), dealer))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodDelete, path, nil), admin))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
