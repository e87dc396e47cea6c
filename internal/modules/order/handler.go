package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/dealer-backend/internal/modules/auth"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/httpx"
)

// Handler exposes order HTTP endpoints. Dealers only see their own orders.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleAdmin, auth.RoleDealer))
		r.Get("/", h.list)                        // GET    /api/v1/orders?dealerId=&vehicleId=&status=
		r.Post("/", h.place)                      // POST   /api/v1/orders
		r.Get("/number/{number}", h.getByNumber)  // GET    /api/v1/orders/number/{number}
		r.Get("/{id}", h.get)                     // GET    /api/v1/orders/{id}
		r.Patch("/{id}", h.update)                // PATCH  /api/v1/orders/{id}
		r.Patch("/{id}/details", h.updateDetails) // PATCH  /api/v1/orders/{id}/details
		r.Post("/{id}/cancel", h.cancel)          // POST   /api/v1/orders/{id}/cancel

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin))
			r.Post("/{id}/odl", h.generateODL) // POST   /api/v1/orders/{id}/odl
			r.Post("/{id}/deliver", h.deliver) // POST   /api/v1/orders/{id}/deliver
			r.Delete("/{id}", h.delete)        // DELETE /api/v1/orders/{id}
		})
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
	orders, err := h.service.List(r.Context(), Filter{
		DealerID:  dealerID,
		VehicleID: vehicleID,
		Status:    OrderStatus(r.URL.Query().Get("status")),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) place(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	if c := auth.ClaimsFrom(r.Context()); !c.IsAdmin() {
		req.DealerID = c.DealerID
	}
	o, err := h.service.Place(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, o)
}

// owned loads the order named in the URL and checks the caller may act on it.
func (h *Handler) owned(w http.ResponseWriter, r *http.Request) (*Order, bool) {
	id, err := httpx.URLID(r, "id")
	if err != nil {
		httpx.BadRequest(w, err)
		return nil, false
	}
	o, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return nil, false
	}
	if !auth.ClaimsFrom(r.Context()).CanAccessDealer(o.DealerID) {
		httpx.Error(w, apperr.NotFound("order", id.String()))
		return nil, false
	}
	return o, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	if o, ok := h.owned(w, r); ok {
		httpx.JSON(w, http.StatusOK, o)
	}
}

func (h *Handler) getByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	o, err := h.service.GetByNumber(r.Context(), number)
	if err == nil && !auth.ClaimsFrom(r.Context()).CanAccessDealer(o.DealerID) {
		err = apperr.NotFound("order", number)
	}
	h.respond(w, o, err)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	current, ok := h.owned(w, r)
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	o, err := h.service.Update(r.Context(), current.ID, req)
	h.respond(w, o, err)
}

func (h *Handler) updateDetails(w http.ResponseWriter, r *http.Request) {
	current, ok := h.owned(w, r)
	if !ok {
		return
	}
	var req UpdateDetailsRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	// the work order flag is set through POST /{id}/odl, which is admin only
	if !auth.ClaimsFrom(r.Context()).IsAdmin() && req.ODLGenerated != nil {
		httpx.Error(w, apperr.ErrForbidden)
		return
	}
	o, err := h.service.UpdateDetails(r.Context(), current.ID, req)
	h.respond(w, o, err)
}

func (h *Handler) generateODL(w http.ResponseWriter, r *http.Request) {
	if current, ok := h.owned(w, r); ok {
		o, err := h.service.GenerateODL(r.Context(), current.ID)
		h.respond(w, o, err)
	}
}

func (h *Handler) deliver(w http.ResponseWriter, r *http.Request) {
	current, ok := h.owned(w, r)
	if !ok {
		return
	}
	var req DeliverRequest
	if r.ContentLength != 0 {
		if err := httpx.Decode(r, &req); err != nil {
			httpx.BadRequest(w, err)
			return
		}
	}
	o, err := h.service.MarkDelivered(r.Context(), current.ID, req.DeliveryDate)
	h.respond(w, o, err)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	if current, ok := h.owned(w, r); ok {
		o, err := h.service.Cancel(r.Context(), current.ID)
		h.respond(w, o, err)
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

func (h *Handler) respond(w http.ResponseWriter, o *Order, err error) {
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}
