package contract

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/dealer-backend/internal/modules/auth"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/httpx"
)

// Handler exposes contract endpoints. Dealers only see their own contracts.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/contracts", func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleAdmin, auth.RoleDealer))
		r.Get("/", h.list) // ?dealerId=&vehicleId=&status=
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Patch("/{id}", h.update)
		r.Post("/{id}/complete", h.complete)
		r.With(auth.RequireRole(auth.RoleAdmin)).Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	dealerID, err := httpx.QueryID(r, "dealerId")
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	vehicleID, err := httpx.QueryID(r, "vehicleId")
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	if c := auth.ClaimsFrom(r.Context()); !c.IsAdmin() {
		dealerID = c.DealerID
	}
	contracts, err := h.service.List(r.Context(), Filter{
		DealerID:  dealerID,
		VehicleID: vehicleID,
		Status:    Status(r.URL.Query().Get("status")),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contracts)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateContractRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	if c := auth.ClaimsFrom(r.Context()); !c.IsAdmin() {
		req.DealerID = c.DealerID
	}
	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) owned(w http.ResponseWriter, r *http.Request) (*Contract, bool) {
	id, err := httpx.URLID(r, "id")
	if err != nil {
		httpx.BadRequest(w, err)
		return nil, false
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return nil, false
	}
	if !auth.ClaimsFrom(r.Context()).CanAccessDealer(c.DealerID) {
		httpx.Error(w, apperr.NotFound("contract", id.String()))
		return nil, false
	}
	return c, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.owned(w, r); ok {
		httpx.JSON(w, http.StatusOK, c)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	current, ok := h.owned(w, r)
	if !ok {
		return
	}
	var req UpdateContractRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	c, err := h.service.Update(r.Context(), current.ID, req)
	h.respond(w, c, err)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	if current, ok := h.owned(w, r); ok {
		c, err := h.service.Complete(r.Context(), current.ID)
		h.respond(w, c, err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLID(r, "id")
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respond(w http.ResponseWriter, c *Contract, err error) {
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
