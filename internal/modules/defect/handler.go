package defect

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/dealer-backend/internal/modules/auth"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/blob"
	"github.com/georgemunganga/dealer-backend/internal/platform/httpx"
)

const multipartMemory = 8 << 20

// Handler exposes defect report endpoints. Dealers only see their own reports.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/defects", func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleAdmin, auth.RoleDealer))
		r.Get("/", h.list)                    // GET    /api/v1/defects?dealerId=&vehicleId=&status=
		r.Post("/", h.create)                 // POST   /api/v1/defects
		r.Get("/{id}", h.get)                 // GET    /api/v1/defects/{id}
		r.Patch("/{id}", h.update)            // PATCH  /api/v1/defects/{id}
		r.Post("/{id}/attachments", h.attach) // POST   /api/v1/defects/{id}/attachments (multipart: kind, file)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin))
			r.Post("/{id}/review", h.review) // POST   /api/v1/defects/{id}/review
			r.Delete("/{id}", h.delete)      // DELETE /api/v1/defects/{id}
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
	reports, err := h.service.List(r.Context(), Filter{
		DealerID:  dealerID,
		VehicleID: vehicleID,
		Status:    Status(r.URL.Query().Get("status")),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, reports)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	if c := auth.ClaimsFrom(r.Context()); !c.IsAdmin() {
		req.DealerID = c.DealerID
	}
	rep, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rep)
}

func (h *Handler) owned(w http.ResponseWriter, r *http.Request) (*Report, bool) {
	id, err := httpx.URLID(r, "id")
	if err != nil {
		httpx.BadRequest(w, err)
		return nil, false
	}
	rep, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return nil, false
	}
	if !auth.ClaimsFrom(r.Context()).CanAccessDealer(rep.DealerID) {
		httpx.Error(w, apperr.NotFound("defect report", id.String()))
		return nil, false
	}
	return rep, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.owned(w, r); ok {
		httpx.JSON(w, http.StatusOK, rep)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	current, ok := h.owned(w, r)
	if !ok {
		return
	}
	var req UpdateReportRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	if !auth.ClaimsFrom(r.Context()).IsAdmin() && (req.AdminNotes != nil || req.PaymentDate != nil) {
		httpx.Error(w, apperr.ErrForbidden)
		return
	}
	rep, err := h.service.Update(r.Context(), current.ID, req)
	h.respond(w, rep, err)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	current, ok := h.owned(w, r)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	rep, err := h.service.Review(r.Context(), current.ID, req)
	h.respond(w, rep, err)
}

func (h *Handler) attach(w http.ResponseWriter, r *http.Request) {
	current, ok := h.owned(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "file is required", nil)
		return
	}
	defer file.Close()

	kind := AttachmentKind(r.FormValue("kind"))
	rep, err := h.service.Attach(r.Context(), current.ID, kind, header.Filename, file)
	if errors.Is(err, blob.ErrTooLarge) {
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, err.Error(), nil)
		return
	}
	h.respond(w, rep, err)
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

func (h *Handler) respond(w http.ResponseWriter, rep *Report, err error) {
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}
