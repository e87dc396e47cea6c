package quote

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/dealer-backend/internal/modules/auth"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/httpx"
)

// Handler exposes quote HTTP endpoints. Dealers only see their own quotes.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/quotes", func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleAdmin, auth.RoleDealer))
		r.Get("/", h.list) // ?dealerId=&vehicleId=&status=
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete) // requires ?confirm=true

		r.Post("/{id}/revert", h.revert)
		r.Post("/{id}/convert", h.convert)

		r.With(auth.RequireRole(auth.RoleAdmin)).Post("/{id}/approve", h.approve)
		r.With(auth.RequireRole(auth.RoleAdmin)).Post("/{id}/reject", h.reject)
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
	quotes, err := h.service.List(r.Context(), Filter{
		DealerID:  dealerID,
		VehicleID: vehicleID,
		Status:    Status(r.URL.Query().Get("status")),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotes)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuoteRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	if c := auth.ClaimsFrom(r.Context()); !c.IsAdmin() {
		req.DealerID = c.DealerID
	}
	q, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

// owned loads the quote named in the URL and checks the caller may act on it.
// It writes the error response itself and returns false on failure.
func (h *Handler) owned(w http.ResponseWriter, r *http.Request) (*Quote, bool) {
	id, err := httpx.URLID(r, "id")
	if err != nil {
		httpx.BadRequest(w, err)
		return nil, false
	}
	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return nil, false
	}
	if !auth.ClaimsFrom(r.Context()).CanAccessDealer(q.DealerID) {
		httpx.Error(w, apperr.NotFound("quote", id.String()))
		return nil, false
	}
	return q, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	if q, ok := h.owned(w, r); ok {
		httpx.JSON(w, http.StatusOK, q)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	current, ok := h.owned(w, r)
	if !ok {
		return
	}
	id := current.ID
	var req UpdateQuoteRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	q, err := h.service.Update(r.Context(), id, req)
	h.respond(w, q, err)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	if current, ok := h.owned(w, r); ok {
		q, err := h.service.Approve(r.Context(), current.ID)
		h.respond(w, q, err)
	}
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	current, ok := h.owned(w, r)
	if !ok {
		return
	}
	id := current.ID
	var req RejectRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	q, err := h.service.Reject(r.Context(), id, req.Reason)
	h.respond(w, q, err)
}

func (h *Handler) revert(w http.ResponseWriter, r *http.Request) {
	if current, ok := h.owned(w, r); ok {
		q, err := h.service.Revert(r.Context(), current.ID)
		h.respond(w, q, err)
	}
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	if current, ok := h.owned(w, r); ok {
		q, err := h.service.Convert(r.Context(), current.ID)
		h.respond(w, q, err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	current, ok := h.owned(w, r)
	if !ok {
		return
	}
	id := current.ID
	if !httpx.QueryBool(r, "confirm") {
		httpx.JSONError(w, http.StatusPreconditionRequired,
			"deleting a quote is permanent; repeat the request with ?confirm=true", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respond(w http.ResponseWriter, q *Quote, err error) {
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}
