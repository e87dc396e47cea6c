package pricing

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/dealer-backend/internal/modules/catalog"
	"github.com/georgemunganga/dealer-backend/internal/platform/httpx"
)

// CatalogSource supplies the catalog prices are computed against.
type CatalogSource interface {
	GetCatalog(ctx context.Context) (*catalog.Catalog, error)
}

// Handler exposes the pricing engine over HTTP for configurator previews.
type Handler struct {
	catalogs CatalogSource
	calc     Calculator
}

func NewHandler(catalogs CatalogSource, calc Calculator) *Handler {
	return &Handler{catalogs: catalogs, calc: calc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/pricing", func(r chi.Router) {
		r.Post("/vehicle", h.vehiclePrice)
		r.Post("/quote", h.quotePrice)
	})
}

func (h *Handler) vehiclePrice(w http.ResponseWriter, r *http.Request) {
	var sel Selection
	if err := httpx.Decode(r, &sel); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	cat, err := h.catalogs.GetCatalog(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	res, err := VehiclePrice(cat, sel)
	if err != nil {
		if errors.Is(err, ErrPricePending) {
			httpx.JSONError(w, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *Handler) quotePrice(w http.ResponseWriter, r *http.Request) {
	var in QuoteInputs
	if err := httpx.Decode(r, &in); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	if err := ValidateInputs(in); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.calc.Quote(in))
}
