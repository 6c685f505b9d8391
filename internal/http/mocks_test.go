package http

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/fjod/go_cart/purchases-service/internal/service"
)

type cartServiceMock struct {
	mu      sync.Mutex
	view    *domain.CartView
	added   bool
	err     error
	buyerID int64
	removed []int64
	cleared bool
}

func (m *cartServiceMock) GetCart(_ context.Context, buyerID int64) (*domain.CartView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buyerID = buyerID
	if m.err != nil {
		return nil, m.err
	}
	return m.view, nil
}

func (m *cartServiceMock) AddItem(_ context.Context, buyerID, _ int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buyerID = buyerID
	return m.added, m.err
}

func (m *cartServiceMock) RemoveItem(_ context.Context, buyerID, ambassadorID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buyerID = buyerID
	m.removed = append(m.removed, ambassadorID)
	return true, m.err
}

func (m *cartServiceMock) ClearCart(_ context.Context, buyerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buyerID = buyerID
	m.cleared = true
	return m.err
}

type checkoutServiceMock struct {
	result *domain.CheckoutResult
	err    error
}

func (m *checkoutServiceMock) Checkout(context.Context, int64) (*domain.CheckoutResult, error) {
	return m.result, m.err
}

type purchaseServiceMock struct {
	purchases []*domain.Purchase
	details   *service.PaymentDetails
	err       error
}

func (m *purchaseServiceMock) ListPurchases(context.Context, int64) ([]*domain.Purchase, error) {
	return m.purchases, m.err
}

func (m *purchaseServiceMock) GetPayment(context.Context, int64, int64) (*service.PaymentDetails, error) {
	return m.details, m.err
}

type reconcilerMock struct {
	result *domain.ReconcileResult
	err    error
	got    []domain.PaymentEvent
}

func (m *reconcilerMock) Reconcile(_ context.Context, ev domain.PaymentEvent) (*domain.ReconcileResult, error) {
	m.got = append(m.got, ev)
	return m.result, m.err
}

type pingerMock struct {
	err error
}

func (m pingerMock) Ping(context.Context) error {
	return m.err
}

var errDBDown = errors.New("connection refused")
