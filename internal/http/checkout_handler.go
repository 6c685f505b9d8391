package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/fjod/go_cart/purchases-service/internal/metrics"
	"github.com/fjod/go_cart/purchases-service/internal/service"
)

type CheckoutService interface {
	Checkout(ctx context.Context, buyerID int64) (*domain.CheckoutResult, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
	metrics  *metrics.ServerMetrics
	timeout  time.Duration
	log      *slog.Logger
}

func NewCheckoutHandler(checkout CheckoutService, m *metrics.ServerMetrics, timeout time.Duration, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, metrics: m, timeout: timeout, log: log}
}

type CheckoutResponseDTO struct {
	CheckoutID  string  `json:"checkout_id"`
	PurchaseIDs []int64 `json:"purchase_ids"`
	PaymentID   int64   `json:"payment_id"`
	Amount      int64   `json:"amount"`
	PaymentURL  string  `json:"payment_url"`
}

func checkoutOutcome(err error) string {
	switch {
	case err == nil:
		return "completed"
	case errors.Is(err, service.ErrItemsInvalid):
		return "items_invalid"
	case errors.Is(err, service.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, service.ErrAuthorityUnreachable):
		return "authority_unreachable"
	case errors.Is(err, service.ErrStorageConflict):
		return "storage_conflict"
	case errors.Is(err, service.ErrStorageUnavailable):
		return "storage_unavailable"
	}
	return "error"
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	result, err := h.checkout.Checkout(ctx, userID)
	h.metrics.Checkouts.WithLabelValues(checkoutOutcome(err)).Inc()
	if err != nil {
		handleServiceError(w, h.log, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		CheckoutID:  result.CheckoutID.String(),
		PurchaseIDs: result.PurchaseIDs,
		PaymentID:   result.PaymentID,
		Amount:      result.Amount,
		PaymentURL:  result.PaymentURL,
	})
}
