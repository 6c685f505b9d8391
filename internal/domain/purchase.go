package domain

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is immutable: PricePaid is the price at checkout time, never recomputed.
type Purchase struct {
	ID           int64
	CheckoutID   uuid.UUID
	BuyerID      int64
	AmbassadorID int64
	PricePaid    int64
	CreatedAt    time.Time
}

// PricedItem is an ambassador together with the price the authority returned for it.
type PricedItem struct {
	AmbassadorID int64
	Price        int64
}

type CheckoutResult struct {
	CheckoutID  uuid.UUID
	PurchaseIDs []int64
	PaymentID   int64
	Amount      int64
	PaymentURL  string
}
