package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// IsTerminal reports an absorbing state: nothing leaves it.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusCancelled || s == PaymentStatusFailed
}

func (s PaymentStatus) CanTransitionTo(to PaymentStatus) bool {
	return s == PaymentStatusPending && to.IsTerminal()
}

func (s PaymentStatus) String() string {
	return string(s)
}

// Payment covers every purchase of one checkout. PurchaseID is the first
// purchase of that checkout; TransactionID stays nil until the gateway binds one.
type Payment struct {
	ID            int64
	PurchaseID    int64
	CheckoutID    uuid.UUID
	BuyerID       int64
	TransactionID *string
	Status        PaymentStatus
	Amount        int64
	GatewayTime   *int64
	GatewayState  *int32
	GatewayReason *int32
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PaymentEventType string

const (
	PaymentEventConfirm PaymentEventType = "confirm"
	PaymentEventCancel  PaymentEventType = "cancel"
	PaymentEventFail    PaymentEventType = "fail"
)

func (t PaymentEventType) Valid() bool {
	switch t {
	case PaymentEventConfirm, PaymentEventCancel, PaymentEventFail:
		return true
	}
	return false
}

// TargetStatus is the status an event moves a pending payment to.
func (t PaymentEventType) TargetStatus() PaymentStatus {
	switch t {
	case PaymentEventConfirm:
		return PaymentStatusCompleted
	case PaymentEventCancel:
		return PaymentStatusCancelled
	default:
		return PaymentStatusFailed
	}
}

// PaymentEvent is one gateway callback. PaymentID is the account reference the
// gateway echoes back from the payment URL; it is only needed until the
// transaction id is bound.
type PaymentEvent struct {
	TransactionID string
	PaymentID     int64
	Type          PaymentEventType
	Amount        int64
	GatewayTime   int64
	GatewayState  int32
	GatewayReason *int32
}

type EventOutcome string

const (
	OutcomeApplied             EventOutcome = "applied"
	OutcomeAmountMismatch      EventOutcome = "amount_mismatch"
	OutcomeDuplicate           EventOutcome = "duplicate"
	OutcomeIgnored             EventOutcome = "ignored"
	OutcomeTransactionConflict EventOutcome = "transaction_conflict"
)

// PaymentEventRecord is the audit row kept for every event received for a known payment.
type PaymentEventRecord struct {
	ID         int64
	PaymentID  int64
	Event      PaymentEvent
	Outcome    EventOutcome
	ReceivedAt time.Time
}

type ReconcileResult struct {
	PaymentID int64
	Status    PaymentStatus
	Applied   bool
	Outcome   EventOutcome
}

// OutboxEvent is written in the same transaction as the state change it announces.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     json.RawMessage
	CreatedAt   time.Time
}

const (
	EventCheckoutCompleted = "checkout.completed"
	EventPaymentCompleted  = "payment.completed"
	EventPaymentCancelled  = "payment.cancelled"
	EventPaymentFailed     = "payment.failed"
)
