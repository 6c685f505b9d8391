package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartService interface {
	GetCart(ctx context.Context, buyerID int64) (*domain.CartView, error)
	AddItem(ctx context.Context, buyerID, ambassadorID int64) (bool, error)
	RemoveItem(ctx context.Context, buyerID, ambassadorID int64) (bool, error)
	ClearCart(ctx context.Context, buyerID int64) error
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
	log     *slog.Logger
}

func NewCartHandler(carts CartService, timeout time.Duration, log *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, timeout: timeout, log: log}
}

type AddItemRequestDTO struct {
	AmbassadorID int64 `json:"ambassador_id"`
}

type AddItemResponseDTO struct {
	AmbassadorID int64 `json:"ambassador_id"`
	Added        bool  `json:"added"`
}

type CartLineDTO struct {
	ID           int64     `json:"id"`
	AmbassadorID int64     `json:"ambassador_id"`
	Price        *int64    `json:"price"`
	Valid        bool      `json:"valid"`
	CreatedAt    time.Time `json:"created_at"`
}

type CartResponseDTO struct {
	CartID               int64         `json:"cart_id"`
	BuyerID              int64         `json:"buyer_id"`
	Items                []CartLineDTO `json:"items"`
	InvalidAmbassadorIDs []int64       `json:"invalid_ambassador_ids"`
	Total                int64         `json:"total"`
	CreatedAt            time.Time     `json:"created_at"`
}

func toCartResponse(v *domain.CartView) CartResponseDTO {
	resp := CartResponseDTO{
		CartID:               v.CartID,
		BuyerID:              v.BuyerID,
		Items:                make([]CartLineDTO, 0, len(v.Lines)),
		InvalidAmbassadorIDs: v.InvalidAmbassadorIDs,
		Total:                v.Total,
		CreatedAt:            v.CreatedAt,
	}
	for _, line := range v.Lines {
		dto := CartLineDTO{
			ID:           line.ID,
			AmbassadorID: line.AmbassadorID,
			Valid:        line.Valid,
			CreatedAt:    line.CreatedAt,
		}
		if line.Valid {
			price := line.Price
			dto.Price = &price
		}
		resp.Items = append(resp.Items, dto)
	}
	if resp.InvalidAmbassadorIDs == nil {
		resp.InvalidAmbassadorIDs = []int64{}
	}
	return resp
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	view, err := h.carts.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, h.log, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(view))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.AmbassadorID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_ambassador_id", "ambassador_id must be positive")
		return
	}

	added, err := h.carts.AddItem(ctx, userID, req.AmbassadorID)
	if err != nil {
		handleServiceError(w, h.log, r, err)
		return
	}

	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	respondJSON(w, status, AddItemResponseDTO{AmbassadorID: req.AmbassadorID, Added: added})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	ambassadorID, err := strconv.ParseInt(chi.URLParam(r, "ambassador_id"), 10, 64)
	if err != nil || ambassadorID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_ambassador_id", "ambassador_id must be a positive integer")
		return
	}

	if _, err := h.carts.RemoveItem(ctx, userID, ambassadorID); err != nil {
		handleServiceError(w, h.log, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.carts.ClearCart(ctx, userID); err != nil {
		handleServiceError(w, h.log, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
