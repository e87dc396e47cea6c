package catalog

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/dealer-backend/internal/modules/auth"
	"github.com/georgemunganga/dealer-backend/internal/platform/httpx"
)

const maxCatalogBytes = 1 << 20

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/", h.getCatalog)     // GET /api/v1/catalog[?format=yaml]
		r.Get("/options", h.options) // GET /api/v1/catalog/options?model=&trim=

		r.With(auth.RequireRole(auth.RoleAdmin)).Put("/", h.replaceCatalog)
	})
}

func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCatalog(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if r.URL.Query().Get("format") == "yaml" {
		body, err := MarshalYAML(c)
		if err != nil {
			httpx.Error(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(body)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// replaceCatalog accepts either JSON or a YAML document.
func (h *Handler) replaceCatalog(w http.ResponseWriter, r *http.Request) {
	var c *Catalog
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCatalogBytes))
		if err != nil {
			httpx.BadRequest(w, err)
			return
		}
		if c, err = decodeYAML(body); err != nil {
			httpx.BadRequest(w, err)
			return
		}
	} else {
		c = &Catalog{}
		if err := httpx.Decode(r, c); err != nil {
			httpx.BadRequest(w, err)
			return
		}
	}
	saved, err := h.service.ReplaceCatalog(r.Context(), c)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}

func (h *Handler) options(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("model") == "" {
		httpx.JSONError(w, http.StatusBadRequest, "model is required", nil)
		return
	}
	opts, err := h.service.Options(r.Context(), q.Get("model"), q.Get("trim"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, opts)
}
