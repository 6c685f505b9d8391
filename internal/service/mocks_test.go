package service

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/fjod/go_cart/purchases-service/internal/ambassador"
	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/fjod/go_cart/purchases-service/internal/repository"
)

// mockPricing partitions ids against a price table like the real authority.
type mockPricing struct {
	mu     sync.Mutex
	prices map[int64]int64
	err    error
	calls  [][]int64

	// When gate is set, each call signals entered and waits for gate to close.
	gate    chan struct{}
	entered chan struct{}
}

func newMockPricing(prices map[int64]int64) *mockPricing {
	return &mockPricing{prices: prices}
}

func (m *mockPricing) Validate(ctx context.Context, ids []int64) (*ambassador.ValidationResult, error) {
	if m.gate != nil {
		m.entered <- struct{}{}
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, slices.Clone(ids))
	if m.err != nil {
		return nil, m.err
	}
	if len(ids) == 0 {
		return nil, ambassador.ErrEmptyRequest
	}

	result := &ambassador.ValidationResult{Valid: []ambassador.PricedAmbassador{}, Invalid: []int64{}}
	for _, id := range ids {
		if price, ok := m.prices[id]; ok {
			result.Valid = append(result.Valid, ambassador.PricedAmbassador{AmbassadorID: id, Price: price})
			continue
		}
		result.Invalid = append(result.Invalid, id)
	}
	return result, nil
}

func (m *mockPricing) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockStore is an in-memory stand-in for the Postgres repository. A single
// mutex plays the role of the row locks.
type mockStore struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	nextID    int64
	carts     map[int64]*domain.Cart
	purchases []*domain.Purchase
	payments  map[int64]*domain.Payment
	events    []*domain.PaymentEventRecord
	outbox    []*domain.OutboxEvent

	getCartErr   error
	addErr       error
	createErr    error
	commitErr    error
	createDelay  time.Duration
	createdCalls int
}

func newMockStore() *mockStore {
	return &mockStore{
		carts:    map[int64]*domain.Cart{},
		payments: map[int64]*domain.Payment{},
	}
}

func (m *mockStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockStore) cartLocked(buyerID int64) *domain.Cart {
	cart, ok := m.carts[buyerID]
	if !ok {
		cart = &domain.Cart{ID: m.id(), BuyerID: buyerID, Items: []domain.CartItem{}, CreatedAt: time.Now()}
		m.carts[buyerID] = cart
	}
	return cart
}

func (m *mockStore) GetOrCreateCart(_ context.Context, buyerID int64) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getCartErr != nil {
		return nil, m.getCartErr
	}
	cart := *m.cartLocked(buyerID)
	cart.Items = slices.Clone(cart.Items)
	return &cart, nil
}

func (m *mockStore) AddItem(_ context.Context, buyerID, ambassadorID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return false, m.addErr
	}
	cart := m.cartLocked(buyerID)
	for _, item := range cart.Items {
		if item.AmbassadorID == ambassadorID {
			return false, nil
		}
	}
	cart.Items = append(cart.Items, domain.CartItem{ID: m.id(), CartID: cart.ID, AmbassadorID: ambassadorID, CreatedAt: time.Now()})
	return true, nil
}

func (m *mockStore) RemoveItem(_ context.Context, buyerID, ambassadorID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[buyerID]
	if !ok {
		return false, nil
	}
	before := len(cart.Items)
	cart.Items = slices.DeleteFunc(cart.Items, func(item domain.CartItem) bool { return item.AmbassadorID == ambassadorID })
	return len(cart.Items) < before, nil
}

func (m *mockStore) ClearCart(_ context.Context, buyerID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[buyerID]
	if !ok {
		return 0, nil
	}
	n := int64(len(cart.Items))
	cart.Items = []domain.CartItem{}
	return n, nil
}

func (m *mockStore) RemoveAmbassador(_ context.Context, ambassadorID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, cart := range m.carts {
		before := len(cart.Items)
		cart.Items = slices.DeleteFunc(cart.Items, func(item domain.CartItem) bool { return item.AmbassadorID == ambassadorID })
		n += int64(before - len(cart.Items))
	}
	return n, nil
}

func (m *mockStore) CreatePurchases(_ context.Context, p repository.CheckoutParams) (*repository.CheckoutRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createdCalls++
	if m.createDelay > 0 {
		time.Sleep(m.createDelay)
	}
	if m.createErr != nil {
		return nil, m.createErr
	}

	var cart *domain.Cart
	for _, c := range m.carts {
		if c.ID == p.CartID && c.BuyerID == p.BuyerID {
			cart = c
		}
	}
	if cart == nil {
		return nil, repository.ErrCartNotFound
	}
	if len(cart.Items) == 0 {
		return nil, repository.ErrCartEmpty
	}
	current := cart.AmbassadorIDs()
	validated := make([]int64, len(p.Items))
	for i, item := range p.Items {
		validated[i] = item.AmbassadorID
	}
	slices.Sort(current)
	slices.Sort(validated)
	if !slices.Equal(current, validated) {
		return nil, repository.ErrCartChanged
	}

	record := &repository.CheckoutRecord{Amount: p.Amount}
	for _, item := range p.Items {
		purchase := &domain.Purchase{
			ID:           m.id(),
			CheckoutID:   p.CheckoutID,
			BuyerID:      p.BuyerID,
			AmbassadorID: item.AmbassadorID,
			PricePaid:    item.Price,
			CreatedAt:    time.Now(),
		}
		m.purchases = append(m.purchases, purchase)
		record.PurchaseIDs = append(record.PurchaseIDs, purchase.ID)
	}
	payment := &domain.Payment{
		ID:         m.id(),
		PurchaseID: record.PurchaseIDs[0],
		CheckoutID: p.CheckoutID,
		BuyerID:    p.BuyerID,
		Status:     domain.PaymentStatusPending,
		Amount:     p.Amount,
	}
	m.payments[payment.ID] = payment
	record.PaymentID = payment.ID
	cart.Items = []domain.CartItem{}
	m.outbox = append(m.outbox, &domain.OutboxEvent{ID: m.id(), AggregateID: p.CheckoutID.String(), EventType: domain.EventCheckoutCompleted})
	return record, nil
}

func (m *mockStore) addPayment(buyerID, amount int64) *domain.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &domain.Payment{ID: m.id(), BuyerID: buyerID, Status: domain.PaymentStatusPending, Amount: amount}
	p.PurchaseID = m.id()
	m.payments[p.ID] = p
	return p
}

func (m *mockStore) payment(id int64) domain.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.payments[id]
}

func (m *mockStore) counts() (purchases, payments, events, outbox int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.purchases), len(m.payments), len(m.events), len(m.outbox)
}

func (m *mockStore) InPaymentTx(ctx context.Context, fn func(ctx context.Context, tx repository.PaymentTx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := &mockTx{store: m, updates: map[int64]domain.Payment{}}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if m.commitErr != nil {
		return m.commitErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range tx.updates {
		updated := p
		m.payments[id] = &updated
	}
	m.events = append(m.events, tx.events...)
	m.outbox = append(m.outbox, tx.outbox...)
	return nil
}

// mockTx stages writes until InPaymentTx commits them.
type mockTx struct {
	store   *mockStore
	updates map[int64]domain.Payment
	events  []*domain.PaymentEventRecord
	outbox  []*domain.OutboxEvent
}

func (t *mockTx) LockByTransactionID(_ context.Context, transactionID string) (*domain.Payment, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, p := range t.store.payments {
		if p.TransactionID != nil && *p.TransactionID == transactionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrPaymentNotFound
}

func (t *mockTx) LockByID(_ context.Context, id int64) (*domain.Payment, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	p, ok := t.store.payments[id]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (t *mockTx) UpdatePayment(_ context.Context, p *domain.Payment) error {
	t.updates[p.ID] = *p
	return nil
}

func (t *mockTx) RecordEvent(_ context.Context, paymentID int64, ev domain.PaymentEvent, outcome domain.EventOutcome) error {
	t.events = append(t.events, &domain.PaymentEventRecord{PaymentID: paymentID, Event: ev, Outcome: outcome, ReceivedAt: time.Now()})
	return nil
}

func (t *mockTx) EnqueueOutbox(_ context.Context, aggregateID, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	t.outbox = append(t.outbox, &domain.OutboxEvent{AggregateID: aggregateID, EventType: eventType, Payload: raw})
	return nil
}

func (m *mockStore) ListPurchasesByBuyer(_ context.Context, buyerID int64) ([]*domain.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Purchase
	for i := len(m.purchases) - 1; i >= 0; i-- {
		if m.purchases[i].BuyerID == buyerID {
			out = append(out, m.purchases[i])
		}
	}
	return out, nil
}

func (m *mockStore) GetPayment(_ context.Context, id int64) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockStore) ListPaymentEvents(_ context.Context, paymentID int64) ([]*domain.PaymentEventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.PaymentEventRecord
	for _, ev := range m.events {
		if ev.PaymentID == paymentID {
			out = append(out, ev)
		}
	}
	return out, nil
}
