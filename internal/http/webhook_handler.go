package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/fjod/go_cart/purchases-service/internal/metrics"
	"github.com/fjod/go_cart/purchases-service/internal/service"
)

type PaymentReconciler interface {
	Reconcile(ctx context.Context, ev domain.PaymentEvent) (*domain.ReconcileResult, error)
}

type WebhookHandler struct {
	reconciler PaymentReconciler
	metrics    *metrics.ServerMetrics
	timeout    time.Duration
	log        *slog.Logger
}

func NewWebhookHandler(reconciler PaymentReconciler, m *metrics.ServerMetrics, timeout time.Duration, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, metrics: m, timeout: timeout, log: log}
}

type WebhookEventDTO struct {
	TransactionID string `json:"transaction_id"`
	EventType     string `json:"event_type"`
	Amount        int64  `json:"amount"`
	GatewayTime   int64  `json:"gateway_time"`
	GatewayState  int32  `json:"gateway_state"`
	GatewayReason *int32 `json:"gateway_reason"`
	PaymentID     int64  `json:"payment_id,omitempty"`
}

type WebhookResponseDTO struct {
	PaymentID int64  `json:"payment_id"`
	Status    string `json:"status"`
	Applied   bool   `json:"applied"`
	Outcome   string `json:"outcome"`
}

// Handle acknowledges with 200 every event it could match to a payment,
// including duplicates, late events and amount mismatches, so the gateway
// stops retrying.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req WebhookEventDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.WebhookEvents.WithLabelValues("malformed").Inc()
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.reconciler.Reconcile(ctx, domain.PaymentEvent{
		TransactionID: req.TransactionID,
		PaymentID:     req.PaymentID,
		Type:          domain.PaymentEventType(req.EventType),
		Amount:        req.Amount,
		GatewayTime:   req.GatewayTime,
		GatewayState:  req.GatewayState,
		GatewayReason: req.GatewayReason,
	})

	outcome := "error"
	if result != nil {
		outcome = string(result.Outcome)
	} else if errors.Is(err, service.ErrPaymentNotFound) {
		outcome = "not_found"
	}
	h.metrics.WebhookEvents.WithLabelValues(outcome).Inc()

	if err != nil && !errors.Is(err, service.ErrAmountMismatch) {
		handleServiceError(w, h.log, r, err)
		return
	}

	respondJSON(w, http.StatusOK, WebhookResponseDTO{
		PaymentID: result.PaymentID,
		Status:    result.Status.String(),
		Applied:   result.Applied,
		Outcome:   string(result.Outcome),
	})
}
