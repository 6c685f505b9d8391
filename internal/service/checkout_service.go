package service

import (
	"context"
	"log/slog"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/fjod/go_cart/purchases-service/internal/repository"
	"github.com/google/uuid"
)

type PaymentURLBuilder interface {
	PaymentURL(paymentID, amount int64) string
}

type CheckoutService struct {
	carts   repository.CartRepository
	store   repository.CheckoutRepository
	pricing AmbassadorValidator
	urls    PaymentURLBuilder
	log     *slog.Logger
	newID   func() uuid.UUID
}

func NewCheckoutService(
	carts repository.CartRepository,
	store repository.CheckoutRepository,
	pricing AmbassadorValidator,
	urls PaymentURLBuilder,
	log *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:   carts,
		store:   store,
		pricing: pricing,
		urls:    urls,
		log:     log,
		newID:   uuid.New,
	}
}

// checkoutAttempt walks one checkout through its states and logs every move.
type checkoutAttempt struct {
	id      uuid.UUID
	buyerID int64
	status  domain.CheckoutStatus
	log     *slog.Logger
}

func (a *checkoutAttempt) advance(ctx context.Context, to domain.CheckoutStatus) error {
	if !domain.CanTransitionTo(a.status, to) {
		return &IllegalTransitionError{From: a.status, To: to}
	}
	a.log.DebugContext(ctx, "checkout transition", "checkout_id", a.id, "from", a.status, "to", to)
	a.status = to
	return nil
}

func (a *checkoutAttempt) abort(ctx context.Context, reason error) error {
	if err := a.advance(ctx, domain.CheckoutStatusAborted); err != nil {
		return err
	}
	a.log.WarnContext(ctx, "checkout aborted", "checkout_id", a.id, "buyer_id", a.buyerID, "reason", reason)
	return reason
}

// Checkout turns the buyer's cart into purchases and one pending payment.
//
// Every item is re-priced first, and a single rejected item aborts the whole
// checkout without writing anything. The purchases, the payment and the
// emptied cart are then committed in one transaction.
func (s *CheckoutService) Checkout(ctx context.Context, buyerID int64) (*domain.CheckoutResult, error) {
	if buyerID <= 0 {
		return nil, ErrInvalidBuyer
	}

	a := &checkoutAttempt{id: s.newID(), buyerID: buyerID, status: domain.CheckoutStatusStarted, log: s.log}

	cart, err := s.carts.GetOrCreateCart(ctx, buyerID)
	if err != nil {
		return nil, a.abort(ctx, storageError("load cart", err))
	}
	if len(cart.Items) == 0 {
		return nil, a.abort(ctx, ErrEmptyCart)
	}

	if err := a.advance(ctx, domain.CheckoutStatusValidating); err != nil {
		return nil, err
	}
	result, err := s.pricing.Validate(ctx, cart.AmbassadorIDs())
	if err != nil {
		return nil, a.abort(ctx, pricingError(err))
	}
	if len(result.Invalid) > 0 {
		return nil, a.abort(ctx, &InvalidItemsError{IDs: result.Invalid})
	}

	items := make([]domain.PricedItem, 0, len(result.Valid))
	var amount int64
	for _, v := range result.Valid {
		items = append(items, domain.PricedItem{AmbassadorID: v.AmbassadorID, Price: v.Price})
		amount += v.Price
	}

	if err := a.advance(ctx, domain.CheckoutStatusPersisting); err != nil {
		return nil, err
	}
	record, err := s.store.CreatePurchases(ctx, repository.CheckoutParams{
		CheckoutID: a.id,
		BuyerID:    buyerID,
		CartID:     cart.ID,
		Items:      items,
		Amount:     amount,
	})
	if err != nil {
		return nil, a.abort(ctx, storageError("persist checkout", err))
	}

	if err := a.advance(ctx, domain.CheckoutStatusCompleted); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "checkout completed",
		"checkout_id", a.id,
		"buyer_id", buyerID,
		"payment_id", record.PaymentID,
		"purchases", len(record.PurchaseIDs),
		"amount", record.Amount)

	return &domain.CheckoutResult{
		CheckoutID:  a.id,
		PurchaseIDs: record.PurchaseIDs,
		PaymentID:   record.PaymentID,
		Amount:      record.Amount,
		PaymentURL:  s.urls.PaymentURL(record.PaymentID, record.Amount),
	}, nil
}
