package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/validation"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("httpx: encode response: %v", err)
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// Decode reads a JSON body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// Error writes err with the status matching its kind. Unknown errors are
// logged and reported as a generic failure.
func Error(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		JSONError(w, http.StatusBadRequest, verr.Error(), verr.Violations)
	case errors.Is(err, apperr.ErrNotFound):
		JSONError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, apperr.ErrInvalidState):
		JSONError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, apperr.ErrConflict):
		JSONError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, apperr.ErrUnauthorized):
		JSONError(w, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, apperr.ErrForbidden):
		JSONError(w, http.StatusForbidden, err.Error(), nil)
	default:
		msg := err.Error()
		if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
			JSONError(w, http.StatusConflict, "record already exists", nil)
			return
		}
		log.Printf("httpx: unhandled error: %v", err)
		JSONError(w, http.StatusInternalServerError, "operation failed", nil)
	}
}

// BadRequest reports a malformed request body.
func BadRequest(w http.ResponseWriter, err error) {
	JSONError(w, http.StatusBadRequest, err.Error(), nil)
}
