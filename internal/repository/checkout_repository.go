package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/google/uuid"
)

type CheckoutParams struct {
	CheckoutID uuid.UUID
	BuyerID    int64
	CartID     int64
	Items      []domain.PricedItem
	Amount     int64
}

type CheckoutRecord struct {
	PurchaseIDs []int64
	PaymentID   int64
	Amount      int64
}

type checkoutCompletedPayload struct {
	CheckoutID  uuid.UUID           `json:"checkout_id"`
	BuyerID     int64               `json:"buyer_id"`
	PaymentID   int64               `json:"payment_id"`
	PurchaseIDs []int64             `json:"purchase_ids"`
	Items       []checkoutItemEntry `json:"items"`
	Amount      int64               `json:"amount"`
	CompletedAt time.Time           `json:"completed_at"`
}

type checkoutItemEntry struct {
	AmbassadorID int64 `json:"ambassador_id"`
	PricePaid    int64 `json:"price_paid"`
}

// CreatePurchases commits the purchases, their payment, the emptied cart and
// the checkout.completed outbox row together, or nothing at all.
//
// The cart row is locked first and its items must still be exactly the
// validated ones: an empty cart means a concurrent checkout won (ErrCartEmpty),
// any other difference means the cart was edited after validation (ErrCartChanged).
func (r *Repository) CreatePurchases(ctx context.Context, p CheckoutParams) (*CheckoutRecord, error) {
	if len(p.Items) == 0 {
		return nil, ErrCartEmpty
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkout tx: %w", err)
	}
	defer rollback(tx)

	var cartID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE id = $1 AND buyer_id = $2 FOR UPDATE`,
		p.CartID, p.BuyerID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, classify("lock cart", err)
	}

	current, err := loadItems(ctx, tx, cartID)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		return nil, ErrCartEmpty
	}
	if !sameAmbassadors(current, p.Items) {
		return nil, ErrCartChanged
	}

	record := &CheckoutRecord{Amount: p.Amount}
	entries := make([]checkoutItemEntry, 0, len(p.Items))
	for _, item := range p.Items {
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO purchases (checkout_id, buyer_id, ambassador_id, price_paid)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			p.CheckoutID, p.BuyerID, item.AmbassadorID, item.Price).Scan(&id)
		if err != nil {
			return nil, classify("insert purchase", err)
		}
		record.PurchaseIDs = append(record.PurchaseIDs, id)
		entries = append(entries, checkoutItemEntry{AmbassadorID: item.AmbassadorID, PricePaid: item.Price})
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO payments (purchase_id, checkout_id, buyer_id, status, amount)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		record.PurchaseIDs[0], p.CheckoutID, p.BuyerID, domain.PaymentStatusPending, p.Amount).Scan(&record.PaymentID)
	if err != nil {
		return nil, classify("insert payment", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return nil, classify("clear cart items", err)
	}

	payload := checkoutCompletedPayload{
		CheckoutID:  p.CheckoutID,
		BuyerID:     p.BuyerID,
		PaymentID:   record.PaymentID,
		PurchaseIDs: record.PurchaseIDs,
		Items:       entries,
		Amount:      p.Amount,
		CompletedAt: time.Now().UTC(),
	}
	if err := enqueueOutbox(ctx, tx, p.CheckoutID.String(), domain.EventCheckoutCompleted, payload); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, classify("commit checkout", err)
	}
	return record, nil
}

func sameAmbassadors(current []domain.CartItem, validated []domain.PricedItem) bool {
	if len(current) != len(validated) {
		return false
	}
	a := make([]int64, len(current))
	for i, item := range current {
		a[i] = item.AmbassadorID
	}
	b := make([]int64, len(validated))
	for i, item := range validated {
		b[i] = item.AmbassadorID
	}
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
