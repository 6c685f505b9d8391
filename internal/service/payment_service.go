package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/fjod/go_cart/purchases-service/internal/repository"
	"github.com/google/uuid"
)

type PaymentService struct {
	store repository.PaymentStore
	log   *slog.Logger
}

func NewPaymentService(store repository.PaymentStore, log *slog.Logger) *PaymentService {
	return &PaymentService{store: store, log: log}
}

type paymentEventPayload struct {
	PaymentID     int64                   `json:"payment_id"`
	CheckoutID    uuid.UUID               `json:"checkout_id"`
	BuyerID       int64                   `json:"buyer_id"`
	TransactionID string                  `json:"transaction_id"`
	Status        domain.PaymentStatus    `json:"status"`
	Amount        int64                   `json:"amount"`
	EventType     domain.PaymentEventType `json:"event_type"`
	EventAmount   int64                   `json:"event_amount"`
	Reason        string                  `json:"reason,omitempty"`
}

var statusEvents = map[domain.PaymentStatus]string{
	domain.PaymentStatusCompleted: domain.EventPaymentCompleted,
	domain.PaymentStatusCancelled: domain.EventPaymentCancelled,
	domain.PaymentStatusFailed:    domain.EventPaymentFailed,
}

func validateEvent(ev domain.PaymentEvent) error {
	switch {
	case ev.TransactionID == "":
		return fmt.Errorf("%w: transaction_id is required", ErrInvalidEvent)
	case !ev.Type.Valid():
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, ev.Type)
	case ev.Amount < 0:
		return fmt.Errorf("%w: negative amount", ErrInvalidEvent)
	}
	return nil
}

// Reconcile applies one gateway event to its payment.
//
// The payment row stays locked for the whole decision, so concurrent
// deliveries of the same event apply once. The first event binds the
// transaction id. The first terminal transition wins: later events against a
// terminal payment are recorded as duplicate or ignored, never applied, and
// are not errors. A confirm whose amount disagrees fails the payment and
// returns ErrAmountMismatch together with the result, after the failure has
// been committed.
func (s *PaymentService) Reconcile(ctx context.Context, ev domain.PaymentEvent) (*domain.ReconcileResult, error) {
	if err := validateEvent(ev); err != nil {
		return nil, err
	}

	var result *domain.ReconcileResult
	err := s.store.InPaymentTx(ctx, func(ctx context.Context, tx repository.PaymentTx) error {
		p, err := s.lockPayment(ctx, tx, ev)
		if err != nil {
			return err
		}

		outcome := s.decide(ctx, p, ev)
		if outcome == domain.OutcomeApplied || outcome == domain.OutcomeAmountMismatch {
			if err := s.apply(ctx, tx, p, ev, outcome); err != nil {
				return err
			}
		}

		if err := tx.RecordEvent(ctx, p.ID, ev, outcome); err != nil {
			return err
		}

		result = &domain.ReconcileResult{
			PaymentID: p.ID,
			Status:    p.Status,
			Applied:   outcome == domain.OutcomeApplied || outcome == domain.OutcomeAmountMismatch,
			Outcome:   outcome,
		}
		return nil
	})
	if err != nil {
		return nil, storageError("reconcile payment", err)
	}

	switch result.Outcome {
	case domain.OutcomeAmountMismatch:
		return result, ErrAmountMismatch
	case domain.OutcomeTransactionConflict:
		return result, ErrTransactionConflict
	}
	return result, nil
}

// lockPayment finds the payment by its bound transaction id, falling back to
// the payment id the gateway echoes back before anything is bound.
func (s *PaymentService) lockPayment(ctx context.Context, tx repository.PaymentTx, ev domain.PaymentEvent) (*domain.Payment, error) {
	p, err := tx.LockByTransactionID(ctx, ev.TransactionID)
	if errors.Is(err, repository.ErrPaymentNotFound) && ev.PaymentID > 0 {
		p, err = tx.LockByID(ctx, ev.PaymentID)
	}
	if errors.Is(err, repository.ErrPaymentNotFound) {
		s.log.WarnContext(ctx, "payment event for unknown payment",
			"transaction_id", ev.TransactionID, "payment_id", ev.PaymentID)
	}
	return p, err
}

func (s *PaymentService) decide(ctx context.Context, p *domain.Payment, ev domain.PaymentEvent) domain.EventOutcome {
	if p.TransactionID != nil && *p.TransactionID != ev.TransactionID {
		s.log.WarnContext(ctx, "payment event transaction conflict",
			"payment_id", p.ID, "bound_transaction_id", *p.TransactionID, "transaction_id", ev.TransactionID)
		return domain.OutcomeTransactionConflict
	}

	if p.Status.IsTerminal() {
		outcome := domain.OutcomeIgnored
		if ev.Type.TargetStatus() == p.Status {
			outcome = domain.OutcomeDuplicate
		}
		s.log.InfoContext(ctx, "payment event not applied",
			"payment_id", p.ID,
			"transaction_id", ev.TransactionID,
			"event_type", ev.Type,
			"status", p.Status,
			"outcome", outcome,
			"reason", ErrAlreadyTerminal)
		return outcome
	}

	if ev.Type == domain.PaymentEventConfirm && ev.Amount != p.Amount {
		return domain.OutcomeAmountMismatch
	}
	return domain.OutcomeApplied
}

func (s *PaymentService) apply(ctx context.Context, tx repository.PaymentTx, p *domain.Payment, ev domain.PaymentEvent, outcome domain.EventOutcome) error {
	to := ev.Type.TargetStatus()
	if outcome == domain.OutcomeAmountMismatch {
		to = domain.PaymentStatusFailed
	}
	if !p.Status.CanTransitionTo(to) {
		return fmt.Errorf("payment %d: cannot move %s -> %s", p.ID, p.Status, to)
	}

	from := p.Status
	txID := ev.TransactionID
	gatewayTime, gatewayState := ev.GatewayTime, ev.GatewayState
	p.TransactionID = &txID
	p.Status = to
	p.GatewayTime = &gatewayTime
	p.GatewayState = &gatewayState
	p.GatewayReason = ev.GatewayReason

	if err := tx.UpdatePayment(ctx, p); err != nil {
		return err
	}

	payload := paymentEventPayload{
		PaymentID:     p.ID,
		CheckoutID:    p.CheckoutID,
		BuyerID:       p.BuyerID,
		TransactionID: txID,
		Status:        p.Status,
		Amount:        p.Amount,
		EventType:     ev.Type,
		EventAmount:   ev.Amount,
	}
	if outcome == domain.OutcomeAmountMismatch {
		payload.Reason = string(domain.OutcomeAmountMismatch)
		s.log.ErrorContext(ctx, "audit: payment amount mismatch",
			"payment_id", p.ID,
			"transaction_id", txID,
			"expected_amount", p.Amount,
			"event_amount", ev.Amount)
	} else {
		s.log.InfoContext(ctx, "payment event applied",
			"payment_id", p.ID, "transaction_id", txID, "from", from, "to", to)
	}

	return tx.EnqueueOutbox(ctx, strconv.FormatInt(p.ID, 10), statusEvents[to], payload)
}
