package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fjod/go_cart/purchases-service/internal/service"
)

type ErrorResponse struct {
	Error                string  `json:"error"`
	Code                 string  `json:"code,omitempty"`
	Details              string  `json:"details,omitempty"`
	InvalidAmbassadorIDs []int64 `json:"invalid_ambassador_ids,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
func handleServiceError(w http.ResponseWriter, log *slog.Logger, r *http.Request, err error) {
	var invalid *service.InvalidItemsError
	switch {
	case errors.As(err, &invalid):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:                "some ambassadors are no longer available, review your cart",
			Code:                 "items_invalid",
			InvalidAmbassadorIDs: invalid.IDs,
		})
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, service.ErrInvalidAmbassador), errors.Is(err, service.ErrInvalidBuyer),
		errors.Is(err, service.ErrInvalidEvent):
		respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, service.ErrAuthorityUnreachable):
		respondError(w, http.StatusServiceUnavailable, "authority_unavailable", "pricing is temporarily unavailable, retry later")
	case errors.Is(err, service.ErrStorageConflict):
		respondError(w, http.StatusServiceUnavailable, "storage_conflict", "request conflicted with a concurrent change, retry")
	case errors.Is(err, service.ErrStorageUnavailable):
		log.WarnContext(r.Context(), "storage unavailable", "path", r.URL.Path, "request_id", getRequestID(r.Context()), "error", err)
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", "storage is temporarily unavailable, retry later")
	case errors.Is(err, service.ErrPaymentNotFound):
		respondError(w, http.StatusNotFound, "not_found", "payment not found")
	case errors.Is(err, service.ErrTransactionConflict):
		respondError(w, http.StatusConflict, "transaction_conflict", err.Error())
	default:
		log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "request_id", getRequestID(r.Context()), "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
