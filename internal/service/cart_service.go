package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/fjod/go_cart/purchases-service/internal/repository"
	"golang.org/x/sync/singleflight"
)

const cartReadTimeout = 10 * time.Second

type CartService struct {
	repo    repository.CartRepository
	pricing AmbassadorValidator
	log     *slog.Logger

	sfg         singleflight.Group // collapses concurrent reads of the same cart
	writes      atomic.Uint64      // bumped after every cart write; part of the flight key
	readTimeout time.Duration
}

func NewCartService(repo repository.CartRepository, pricing AmbassadorValidator, log *slog.Logger) *CartService {
	return &CartService{
		repo:        repo,
		pricing:     pricing,
		log:         log,
		readTimeout: cartReadTimeout,
	}
}

// GetCart prices the cart live. Items the authority rejects stay visible,
// flagged invalid and left out of the total; no price is ever guessed.
func (s *CartService) GetCart(ctx context.Context, buyerID int64) (*domain.CartView, error) {
	if buyerID <= 0 {
		return nil, ErrInvalidBuyer
	}

	// A read never joins a flight that began before the last write finished.
	key := strconv.FormatInt(buyerID, 10) + "@" + strconv.FormatUint(s.writes.Load(), 10)
	ch := s.sfg.DoChan(key, func() (interface{}, error) {
		// The flight is shared; one caller going away must not fail the others.
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.readTimeout)
		defer cancel()

		cart, err := s.repo.GetOrCreateCart(flightCtx, buyerID)
		if err != nil {
			return nil, storageError("load cart", err)
		}
		return s.price(flightCtx, cart)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.CartView), nil
	}
}

func (s *CartService) price(ctx context.Context, cart *domain.Cart) (*domain.CartView, error) {
	view := &domain.CartView{
		CartID:               cart.ID,
		BuyerID:              cart.BuyerID,
		Lines:                []domain.CartLine{},
		InvalidAmbassadorIDs: []int64{},
		CreatedAt:            cart.CreatedAt,
	}
	if len(cart.Items) == 0 {
		return view, nil
	}

	result, err := s.pricing.Validate(ctx, cart.AmbassadorIDs())
	if err != nil {
		s.log.WarnContext(ctx, "cart pricing failed", "buyer_id", cart.BuyerID, "error", err)
		return nil, pricingError(err)
	}

	prices := result.Prices()
	for _, item := range cart.Items {
		price, ok := prices[item.AmbassadorID]
		view.Lines = append(view.Lines, domain.CartLine{CartItem: item, Price: price, Valid: ok})
		if !ok {
			view.InvalidAmbassadorIDs = append(view.InvalidAmbassadorIDs, item.AmbassadorID)
			continue
		}
		view.Total += price
	}
	return view, nil
}

// AddItem puts an ambassador the authority currently sells into the cart.
// Adding one already there is a no-op reported as false.
func (s *CartService) AddItem(ctx context.Context, buyerID, ambassadorID int64) (bool, error) {
	if buyerID <= 0 {
		return false, ErrInvalidBuyer
	}
	if ambassadorID <= 0 {
		return false, ErrInvalidAmbassador
	}

	result, err := s.pricing.Validate(ctx, []int64{ambassadorID})
	if err != nil {
		return false, pricingError(err)
	}
	if len(result.Invalid) > 0 {
		return false, &InvalidItemsError{IDs: result.Invalid}
	}

	added, err := s.repo.AddItem(ctx, buyerID, ambassadorID)
	s.writes.Add(1)
	if err != nil {
		s.log.ErrorContext(ctx, "repo add item error", "buyer_id", buyerID, "ambassador_id", ambassadorID, "error", err)
		return false, storageError("add cart item", err)
	}
	return added, nil
}

// RemoveItem is a no-op, not an error, when the item is not in the cart.
func (s *CartService) RemoveItem(ctx context.Context, buyerID, ambassadorID int64) (bool, error) {
	if buyerID <= 0 {
		return false, ErrInvalidBuyer
	}

	removed, err := s.repo.RemoveItem(ctx, buyerID, ambassadorID)
	s.writes.Add(1)
	if err != nil {
		s.log.ErrorContext(ctx, "repo remove item error", "buyer_id", buyerID, "ambassador_id", ambassadorID, "error", err)
		return false, storageError("remove cart item", err)
	}
	return removed, nil
}

func (s *CartService) ClearCart(ctx context.Context, buyerID int64) error {
	if buyerID <= 0 {
		return ErrInvalidBuyer
	}

	_, err := s.repo.ClearCart(ctx, buyerID)
	s.writes.Add(1)
	if err != nil {
		s.log.ErrorContext(ctx, "repo clear cart error", "buyer_id", buyerID, "error", err)
		return storageError("clear cart", err)
	}
	return nil
}

// RemoveAmbassador drops an ambassador the authority stopped selling from every cart.
func (s *CartService) RemoveAmbassador(ctx context.Context, ambassadorID int64) (int64, error) {
	if ambassadorID <= 0 {
		return 0, ErrInvalidAmbassador
	}

	n, err := s.repo.RemoveAmbassador(ctx, ambassadorID)
	s.writes.Add(1)
	if err != nil {
		return 0, storageError("remove ambassador", err)
	}
	s.log.InfoContext(ctx, "removed deleted ambassador from carts", "ambassador_id", ambassadorID, "items", n)
	return n, nil
}
