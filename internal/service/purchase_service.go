package service

import (
	"context"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/fjod/go_cart/purchases-service/internal/repository"
)

type PurchaseService struct {
	repo repository.PurchaseRepository
}

func NewPurchaseService(repo repository.PurchaseRepository) *PurchaseService {
	return &PurchaseService{repo: repo}
}

type PaymentDetails struct {
	Payment *domain.Payment
	Events  []*domain.PaymentEventRecord
}

// ListPurchases returns the buyer's purchases, newest first.
func (s *PurchaseService) ListPurchases(ctx context.Context, buyerID int64) ([]*domain.Purchase, error) {
	if buyerID <= 0 {
		return nil, ErrInvalidBuyer
	}

	purchases, err := s.repo.ListPurchasesByBuyer(ctx, buyerID)
	if err != nil {
		return nil, storageError("list purchases", err)
	}
	if purchases == nil {
		purchases = []*domain.Purchase{}
	}
	return purchases, nil
}

// GetPayment hides payments of other buyers behind ErrPaymentNotFound.
func (s *PurchaseService) GetPayment(ctx context.Context, buyerID, paymentID int64) (*PaymentDetails, error) {
	payment, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, storageError("get payment", err)
	}
	if payment.BuyerID != buyerID {
		return nil, ErrPaymentNotFound
	}

	events, err := s.repo.ListPaymentEvents(ctx, paymentID)
	if err != nil {
		return nil, storageError("list payment events", err)
	}
	return &PaymentDetails{Payment: payment, Events: events}, nil
}
