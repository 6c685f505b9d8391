package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
)

const paymentColumns = `id, purchase_id, checkout_id, buyer_id, transaction_id, status, amount,
	gateway_time, gateway_state, gateway_reason, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var (
		p             domain.Payment
		transactionID sql.NullString
		gatewayTime   sql.NullInt64
		gatewayState  sql.NullInt32
		gatewayReason sql.NullInt32
	)
	err := row.Scan(&p.ID, &p.PurchaseID, &p.CheckoutID, &p.BuyerID, &transactionID, &p.Status, &p.Amount,
		&gatewayTime, &gatewayState, &gatewayReason, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if transactionID.Valid {
		p.TransactionID = &transactionID.String
	}
	if gatewayTime.Valid {
		p.GatewayTime = &gatewayTime.Int64
	}
	if gatewayState.Valid {
		p.GatewayState = &gatewayState.Int32
	}
	if gatewayReason.Valid {
		p.GatewayReason = &gatewayReason.Int32
	}
	return &p, nil
}

func (r *Repository) InPaymentTx(ctx context.Context, fn func(ctx context.Context, tx PaymentTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payment tx: %w", err)
	}
	defer rollback(tx)

	if err := fn(ctx, &paymentTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("commit payment tx", err)
	}
	return nil
}

type paymentTx struct {
	tx *sql.Tx
}

func (t *paymentTx) lock(ctx context.Context, where string, arg any) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE ` + where + ` FOR UPDATE`
	p, err := scanPayment(t.tx.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, classify("lock payment", err)
	}
	return p, nil
}

func (t *paymentTx) LockByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	return t.lock(ctx, "transaction_id = $1", transactionID)
}

func (t *paymentTx) LockByID(ctx context.Context, id int64) (*domain.Payment, error) {
	return t.lock(ctx, "id = $1", id)
}

func (t *paymentTx) UpdatePayment(ctx context.Context, p *domain.Payment) error {
	query := `UPDATE payments
	          SET transaction_id = $2, status = $3, gateway_time = $4, gateway_state = $5, gateway_reason = $6,
	              updated_at = NOW()
	          WHERE id = $1
	          RETURNING updated_at`

	err := t.tx.QueryRowContext(ctx, query,
		p.ID, p.TransactionID, p.Status, p.GatewayTime, p.GatewayState, p.GatewayReason).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPaymentNotFound
	}
	if err != nil {
		return classify("update payment", err)
	}
	return nil
}

func (t *paymentTx) RecordEvent(ctx context.Context, paymentID int64, ev domain.PaymentEvent, outcome domain.EventOutcome) error {
	query := `INSERT INTO payment_events
	          (payment_id, transaction_id, event_type, amount, gateway_time, gateway_state, gateway_reason, outcome)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := t.tx.ExecContext(ctx, query,
		paymentID, ev.TransactionID, ev.Type, ev.Amount, ev.GatewayTime, ev.GatewayState, ev.GatewayReason, outcome)
	if err != nil {
		return classify("insert payment event", err)
	}
	return nil
}

func (t *paymentTx) EnqueueOutbox(ctx context.Context, aggregateID, eventType string, payload any) error {
	return enqueueOutbox(ctx, t.tx, aggregateID, eventType, payload)
}

func (r *Repository) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query payment by id: %w", err)
	}
	return p, nil
}

func (r *Repository) ListPaymentEvents(ctx context.Context, paymentID int64) ([]*domain.PaymentEventRecord, error) {
	query := `SELECT id, payment_id, transaction_id, event_type, amount, gateway_time, gateway_state,
	                 gateway_reason, outcome, received_at
	          FROM payment_events WHERE payment_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("query payment events: %w", err)
	}
	defer rows.Close()

	var records []*domain.PaymentEventRecord
	for rows.Next() {
		var rec domain.PaymentEventRecord
		var reason sql.NullInt32
		if err := rows.Scan(&rec.ID, &rec.PaymentID, &rec.Event.TransactionID, &rec.Event.Type, &rec.Event.Amount,
			&rec.Event.GatewayTime, &rec.Event.GatewayState, &reason, &rec.Outcome, &rec.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan payment event row: %w", err)
		}
		if reason.Valid {
			rec.Event.GatewayReason = &reason.Int32
		}
		rec.Event.PaymentID = rec.PaymentID
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

func (r *Repository) ListPurchasesByBuyer(ctx context.Context, buyerID int64) ([]*domain.Purchase, error) {
	query := `SELECT id, checkout_id, buyer_id, ambassador_id, price_paid, created_at
	          FROM purchases WHERE buyer_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, buyerID)
	if err != nil {
		return nil, fmt.Errorf("query purchases by buyer: %w", err)
	}
	defer rows.Close()

	var purchases []*domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.CheckoutID, &p.BuyerID, &p.AmbassadorID, &p.PricePaid, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase row: %w", err)
		}
		purchases = append(purchases, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return purchases, nil
}
