package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/electro-atlas/storefront/internal/commerce"
	"github.com/electro-atlas/storefront/internal/domain"
	"github.com/electro-atlas/storefront/internal/storefront"
	"github.com/electro-atlas/storefront/pkg/circuitbreaker"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeJSON reads the request body into dst and runs struct validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+" "+fe.Tag())
			}
			respondJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "request validation failed",
				Code:    "invalid_argument",
				Details: strings.Join(fields, ", "),
			})
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return false
	}
	return true
}

// handleError converts service errors to HTTP status codes.
func handleError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	var apiErr *commerce.APIError

	var httpStatus int
	var code string
	message := err.Error()

	switch {
	case errors.As(err, &verr):
		httpStatus = http.StatusBadRequest
		code = "invalid_" + verr.Field
	case errors.Is(err, domain.ErrInsufficientInventory):
		httpStatus = http.StatusConflict
		code = "insufficient_inventory"
	case errors.Is(err, storefront.ErrSessionPending):
		w.Header().Set("Retry-After", "1")
		httpStatus = http.StatusServiceUnavailable
		code = "session_pending"
	case errors.Is(err, storefront.ErrStorageUnavailable):
		httpStatus = http.StatusServiceUnavailable
		code = "storage_unavailable"
	case errors.Is(err, storefront.ErrAuthRequired), errors.Is(err, commerce.ErrUnauthorized):
		httpStatus = http.StatusUnauthorized
		code = "unauthenticated"
	case errors.Is(err, storefront.ErrNoGuestSession):
		httpStatus = http.StatusBadRequest
		code = "missing_session"
	case errors.Is(err, commerce.ErrNotFound):
		httpStatus = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, circuitbreaker.ErrOpen), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		httpStatus = http.StatusServiceUnavailable
		code = "service_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus = http.StatusGatewayTimeout
		code = "timeout"
	case errors.As(err, &apiErr):
		httpStatus = http.StatusBadGateway
		code = "upstream_error"
	default:
		log.Printf("unhandled error: %v", err)
		httpStatus = http.StatusInternalServerError
		code = "internal_error"
		message = "internal server error"
	}

	respondError(w, httpStatus, code, message)
}
