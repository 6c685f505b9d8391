package service

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/fjod/go_cart/purchases-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseService_ListPurchases(t *testing.T) {
	checkout, store, _ := newCheckoutFixture(testPrices)
	svc := NewPurchaseService(store)
	ctx := context.Background()

	empty, err := svc.ListPurchases(ctx, 7)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	putInCart(t, store, 7, 1)
	_, err = checkout.Checkout(ctx, 7)
	require.NoError(t, err)
	putInCart(t, store, 7, 2)
	_, err = checkout.Checkout(ctx, 7)
	require.NoError(t, err)

	purchases, err := svc.ListPurchases(ctx, 7)
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, int64(2), purchases[0].AmbassadorID, "newest first")
	assert.Equal(t, int64(75000), purchases[0].PricePaid)
}

func TestPurchaseService_GetPayment(t *testing.T) {
	store := newMockStore()
	svc := NewPurchaseService(store)
	payments := NewPaymentService(store, logger.Discard())
	ctx := context.Background()
	p := store.addPayment(7, 1000)

	_, err := payments.Reconcile(ctx, confirmEvent(p.ID, "T1", 1000))
	require.NoError(t, err)

	details, err := svc.GetPayment(ctx, 7, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, details.Payment.ID)
	assert.Len(t, details.Events, 1)

	_, err = svc.GetPayment(ctx, 8, p.ID)
	assert.ErrorIs(t, err, ErrPaymentNotFound, "other buyers' payments are invisible")

	_, err = svc.GetPayment(ctx, 7, 999)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestPaymeURLBuilder(t *testing.T) {
	tests := []struct {
		name string
		cfg  PaymeConfig
		base string
		want string
	}{
		{"test mode default field", PaymeConfig{MerchantID: "abc", TestMode: true}, "https://test.paycom.uz/", "m=abc;ac.payment_id=12;a=150000"},
		{"production custom field", PaymeConfig{MerchantID: "abc", AccountField: "order_id"}, "https://checkout.paycom.uz/", "m=abc;ac.order_id=12;a=150000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := NewPaymeURLBuilder(tt.cfg).PaymentURL(12, 150000)
			require.True(t, strings.HasPrefix(url, tt.base), url)
			raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, tt.base))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(raw))
		})
	}

	b := NewPaymeURLBuilder(PaymeConfig{MerchantID: "abc"})
	assert.Equal(t, b.PaymentURL(1, 2), b.PaymentURL(1, 2), "deterministic")
}

func TestInvalidItemsError(t *testing.T) {
	err := &InvalidItemsError{IDs: []int64{4, 9}}

	assert.ErrorIs(t, err, ErrItemsInvalid)
	assert.NotErrorIs(t, err, ErrEmptyCart)
	assert.Contains(t, err.Error(), "[4 9]")
}
