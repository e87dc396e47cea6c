package dealer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/dealer-backend/internal/modules/auth"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/blob"
	"github.com/georgemunganga/dealer-backend/internal/platform/httpx"
)

const multipartMemory = 8 << 20

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/dealers", func(r chi.Router) {
		// dealers may read their own record and credit
		r.With(auth.RequireRole(auth.RoleAdmin, auth.RoleDealer)).Get("/{id}", h.get)
		r.With(auth.RequireRole(auth.RoleAdmin, auth.RoleDealer)).Get("/{id}/credit", h.credit)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin))
			r.Get("/", h.list) // ?active=true|false
			r.Post("/", h.create)
			r.Patch("/{id}", h.update)
			r.Delete("/{id}", h.delete)
			r.Patch("/{id}/active", h.setActive)
			r.Post("/{id}/logo", h.uploadLogo) // multipart field "file"
		})
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var f Filter
	if raw := r.URL.Query().Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "active must be a boolean", nil)
			return
		}
		f.Active = &active
	}
	dealers, err := h.service.List(r.Context(), f)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dealers)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateDealerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	d, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, d)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLID(r, "id")
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	if !auth.ClaimsFrom(r.Context()).CanAccessDealer(id) {
		httpx.Error(w, apperr.NotFound("dealer", id.String()))
		return
	}
	d, err := h.service.Get(r.Context(), id)
	h.respond(w, d, err)
}

func (h *Handler) credit(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLID(r, "id")
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	if !auth.ClaimsFrom(r.Context()).CanAccessDealer(id) {
		httpx.Error(w, apperr.NotFound("dealer", id.String()))
		return
	}
	c, err := h.service.Credit(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLID(r, "id")
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	var req UpdateDealerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	d, err := h.service.Update(r.Context(), id, req)
	h.respond(w, d, err)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLID(r, "id")
	if err != nil {
		httpx.BadRequest(w, err)
		return
	}
	var req ActiveRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, err)
		return
	}
	d, err := h.service.SetActive(r.Context(), id, req.IsActive)
	h.respond(w, d, err)
}

func (h *Handler) uploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLID(r, "id")
	if err != nil {
		httpx.BadRequest(w, err)
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

	d, err := h.service.UploadLogo(r.Context(), id, header.Filename, file)
	if errors.Is(err, blob.ErrTooLarge) {
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, err.Error(), nil)
		return
	}
	h.respond(w, d, err)
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

func (h *Handler) respond(w http.ResponseWriter, d *Dealer, err error) {
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}
