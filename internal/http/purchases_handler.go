package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/fjod/go_cart/purchases-service/internal/service"
	"github.com/go-chi/chi/v5"
)

type PurchaseService interface {
	ListPurchases(ctx context.Context, buyerID int64) ([]*domain.Purchase, error)
	GetPayment(ctx context.Context, buyerID, paymentID int64) (*service.PaymentDetails, error)
}

type PurchasesHandler struct {
	purchases PurchaseService
	timeout   time.Duration
	log       *slog.Logger
}

func NewPurchasesHandler(purchases PurchaseService, timeout time.Duration, log *slog.Logger) *PurchasesHandler {
	return &PurchasesHandler{purchases: purchases, timeout: timeout, log: log}
}

type PurchaseDTO struct {
	ID           int64     `json:"id"`
	CheckoutID   string    `json:"checkout_id"`
	AmbassadorID int64     `json:"ambassador_id"`
	PricePaid    int64     `json:"price_paid"`
	CreatedAt    time.Time `json:"created_at"`
}

type PaymentEventDTO struct {
	TransactionID string    `json:"transaction_id"`
	EventType     string    `json:"event_type"`
	Amount        int64     `json:"amount"`
	Outcome       string    `json:"outcome"`
	ReceivedAt    time.Time `json:"received_at"`
}

type PaymentDTO struct {
	ID            int64             `json:"id"`
	PurchaseID    int64             `json:"purchase_id"`
	CheckoutID    string            `json:"checkout_id"`
	TransactionID *string           `json:"transaction_id"`
	Status        string            `json:"status"`
	Amount        int64             `json:"amount"`
	GatewayTime   *int64            `json:"gateway_time"`
	GatewayState  *int32            `json:"gateway_state"`
	GatewayReason *int32            `json:"gateway_reason"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Events        []PaymentEventDTO `json:"events"`
}

func (h *PurchasesHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	purchases, err := h.purchases.ListPurchases(ctx, userID)
	if err != nil {
		handleServiceError(w, h.log, r, err)
		return
	}

	resp := make([]PurchaseDTO, 0, len(purchases))
	for _, p := range purchases {
		resp = append(resp, PurchaseDTO{
			ID:           p.ID,
			CheckoutID:   p.CheckoutID.String(),
			AmbassadorID: p.AmbassadorID,
			PricePaid:    p.PricePaid,
			CreatedAt:    p.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *PurchasesHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	paymentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || paymentID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_payment_id", "payment id must be a positive integer")
		return
	}

	details, err := h.purchases.GetPayment(ctx, userID, paymentID)
	if err != nil {
		handleServiceError(w, h.log, r, err)
		return
	}

	p := details.Payment
	resp := PaymentDTO{
		ID:            p.ID,
		PurchaseID:    p.PurchaseID,
		CheckoutID:    p.CheckoutID.String(),
		TransactionID: p.TransactionID,
		Status:        p.Status.String(),
		Amount:        p.Amount,
		GatewayTime:   p.GatewayTime,
		GatewayState:  p.GatewayState,
		GatewayReason: p.GatewayReason,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Events:        make([]PaymentEventDTO, 0, len(details.Events)),
	}
	for _, ev := range details.Events {
		resp.Events = append(resp.Events, PaymentEventDTO{
			TransactionID: ev.Event.TransactionID,
			EventType:     string(ev.Event.Type),
			Amount:        ev.Event.Amount,
			Outcome:       string(ev.Outcome),
			ReceivedAt:    ev.ReceivedAt,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}
