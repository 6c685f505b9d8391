package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/fjod/go_cart/purchases-service/internal/repository"
	"github.com/fjod/go_cart/purchases-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmEvent(paymentID int64, txID string, amount int64) domain.PaymentEvent {
	return domain.PaymentEvent{
		TransactionID: txID,
		PaymentID:     paymentID,
		Type:          domain.PaymentEventConfirm,
		Amount:        amount,
		GatewayTime:   1700000000000,
		GatewayState:  2,
	}
}

func TestReconcile_ConfirmThenDuplicate(t *testing.T) {
	store := newMockStore()
	svc := NewPaymentService(store, logger.Discard())
	p := store.addPayment(7, 150000)
	ctx := context.Background()

	result, err := svc.Reconcile(ctx, confirmEvent(p.ID, "T1", 150000))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, result.Status)
	assert.True(t, result.Applied)
	assert.Equal(t, domain.OutcomeApplied, result.Outcome)

	first := store.payment(p.ID)
	require.NotNil(t, first.TransactionID)
	assert.Equal(t, "T1", *first.TransactionID)
	assert.Equal(t, int64(1700000000000), *first.GatewayTime)

	// the gateway echo of payment_id is gone on retries; the bound transaction id finds it
	retry := confirmEvent(0, "T1", 150000)
	retry.GatewayTime = 1700000009999
	result, err = svc.Reconcile(ctx, retry)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, result.Status)
	assert.False(t, result.Applied)
	assert.Equal(t, domain.OutcomeDuplicate, result.Outcome)

	assert.Equal(t, first, store.payment(p.ID), "state identical after the second application")

	_, _, events, outbox := store.counts()
	assert.Equal(t, 2, events, "both deliveries recorded")
	assert.Equal(t, 1, outbox, "side effects applied once")
	assert.Equal(t, domain.EventPaymentCompleted, store.outbox[0].EventType)
}

func TestReconcile_AmountMismatchFails(t *testing.T) {
	store := newMockStore()
	svc := NewPaymentService(store, logger.Discard())
	p := store.addPayment(7, 150000)

	result, err := svc.Reconcile(context.Background(), confirmEvent(p.ID, "T1", 149999))
	require.ErrorIs(t, err, ErrAmountMismatch)
	require.NotNil(t, result)
	assert.Equal(t, domain.PaymentStatusFailed, result.Status)
	assert.Equal(t, domain.OutcomeAmountMismatch, result.Outcome)

	stored := store.payment(p.ID)
	assert.Equal(t, domain.PaymentStatusFailed, stored.Status)
	assert.Equal(t, int64(150000), stored.Amount, "amount never auto-corrected")

	require.Len(t, store.outbox, 1)
	assert.Equal(t, domain.EventPaymentFailed, store.outbox[0].EventType)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(store.outbox[0].Payload, &payload))
	assert.Equal(t, "amount_mismatch", payload["reason"])
	assert.EqualValues(t, 149999, payload["event_amount"])

	result, err = svc.Reconcile(context.Background(), confirmEvent(p.ID, "T1", 150000))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, result.Status, "never completed after a mismatch")
	assert.False(t, result.Applied)
}

func TestReconcile_CancelAndFail(t *testing.T) {
	tests := []struct {
		eventType domain.PaymentEventType
		want      domain.PaymentStatus
		outbox    string
	}{
		{domain.PaymentEventCancel, domain.PaymentStatusCancelled, domain.EventPaymentCancelled},
		{domain.PaymentEventFail, domain.PaymentStatusFailed, domain.EventPaymentFailed},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			store := newMockStore()
			svc := NewPaymentService(store, logger.Discard())
			p := store.addPayment(7, 1000)
			reason := int32(3)

			ev := confirmEvent(p.ID, "T1", 1000)
			ev.Type = tt.eventType
			ev.GatewayReason = &reason

			result, err := svc.Reconcile(context.Background(), ev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)
			assert.True(t, result.Applied)

			stored := store.payment(p.ID)
			require.NotNil(t, stored.GatewayReason)
			assert.Equal(t, int32(3), *stored.GatewayReason)
			require.Len(t, store.outbox, 1)
			assert.Equal(t, tt.outbox, store.outbox[0].EventType)
		})
	}
}

func TestReconcile_LateCancelAfterConfirmIsIgnored(t *testing.T) {
	store := newMockStore()
	svc := NewPaymentService(store, logger.Discard())
	p := store.addPayment(7, 1000)
	ctx := context.Background()

	_, err := svc.Reconcile(ctx, confirmEvent(p.ID, "T1", 1000))
	require.NoError(t, err)
	completed := store.payment(p.ID)

	cancel := confirmEvent(0, "T1", 1000)
	cancel.Type = domain.PaymentEventCancel
	cancel.GatewayState = -2
	result, err := svc.Reconcile(ctx, cancel)
	require.NoError(t, err, "terminal payments ack, never error")
	assert.Equal(t, domain.PaymentStatusCompleted, result.Status)
	assert.Equal(t, domain.OutcomeIgnored, result.Outcome)
	assert.False(t, result.Applied)

	assert.Equal(t, completed, store.payment(p.ID), "audit fields untouched")
	require.Len(t, store.events, 2)
	assert.Equal(t, domain.OutcomeIgnored, store.events[1].Outcome)
	assert.Equal(t, domain.PaymentEventCancel, store.events[1].Event.Type)
}

func TestReconcile_UnknownTransaction(t *testing.T) {
	store := newMockStore()
	svc := NewPaymentService(store, logger.Discard())
	store.addPayment(7, 1000)

	_, err := svc.Reconcile(context.Background(), confirmEvent(0, "nope", 1000))
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	_, err = svc.Reconcile(context.Background(), confirmEvent(424242, "nope", 1000))
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	_, payments, events, outbox := store.counts()
	assert.Equal(t, 1, payments, "webhooks never create payments")
	assert.Zero(t, events)
	assert.Zero(t, outbox)
}

func TestReconcile_TransactionConflict(t *testing.T) {
	store := newMockStore()
	svc := NewPaymentService(store, logger.Discard())
	p := store.addPayment(7, 1000)
	ctx := context.Background()

	ev := confirmEvent(p.ID, "T1", 1000)
	ev.Type = domain.PaymentEventFail
	_, err := svc.Reconcile(ctx, ev)
	require.NoError(t, err)
	before := store.payment(p.ID)

	result, err := svc.Reconcile(ctx, confirmEvent(p.ID, "T2", 1000))
	require.ErrorIs(t, err, ErrTransactionConflict)
	assert.Equal(t, domain.OutcomeTransactionConflict, result.Outcome)
	assert.Equal(t, before, store.payment(p.ID))
	assert.Equal(t, domain.OutcomeTransactionConflict, store.events[1].Outcome)
}

func TestReconcile_InvalidEvent(t *testing.T) {
	store := newMockStore()
	svc := NewPaymentService(store, logger.Discard())

	tests := []domain.PaymentEvent{
		{Type: domain.PaymentEventConfirm, Amount: 1},
		{TransactionID: "T1", Type: "refund", Amount: 1},
		{TransactionID: "T1", Type: domain.PaymentEventConfirm, Amount: -5},
	}
	for _, ev := range tests {
		_, err := svc.Reconcile(context.Background(), ev)
		assert.ErrorIs(t, err, ErrInvalidEvent)
	}
}

func TestReconcile_ConcurrentConfirmsApplyOnce(t *testing.T) {
	store := newMockStore()
	svc := NewPaymentService(store, logger.Discard())
	p := store.addPayment(7, 5000)

	const deliveries = 10
	results := make([]*domain.ReconcileResult, deliveries)
	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := svc.Reconcile(context.Background(), confirmEvent(p.ID, "T1", 5000))
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()

	applied := 0
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, domain.PaymentStatusCompleted, r.Status)
		if r.Applied {
			applied++
		}
	}
	assert.Equal(t, 1, applied)

	_, _, events, outbox := store.counts()
	assert.Equal(t, deliveries, events)
	assert.Equal(t, 1, outbox)
}

func TestReconcile_CommitConflict(t *testing.T) {
	store := newMockStore()
	store.commitErr = errors.Join(errors.New("serialization failure"), repository.ErrConflict)
	svc := NewPaymentService(store, logger.Discard())
	p := store.addPayment(7, 5000)

	_, err := svc.Reconcile(context.Background(), confirmEvent(p.ID, "T1", 5000))
	assert.ErrorIs(t, err, ErrStorageConflict)
	assert.Equal(t, domain.PaymentStatusPending, store.payment(p.ID).Status)
}
