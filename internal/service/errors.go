package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/fjod/go_cart/purchases-service/internal/ambassador"
	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/fjod/go_cart/purchases-service/internal/repository"
)

var (
	ErrAuthorityUnreachable = errors.New("ambassador authority unreachable")
	ErrItemsInvalid         = errors.New("cart contains ambassadors that are no longer sold")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrStorageConflict      = errors.New("storage conflict")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrAmountMismatch       = errors.New("payment amount mismatch")
	// ErrAlreadyTerminal is logged, never returned: gateways retry and must get an ack.
	ErrAlreadyTerminal     = errors.New("payment already in a terminal state")
	ErrTransactionConflict = errors.New("payment is bound to a different transaction")
	ErrInvalidEvent        = errors.New("invalid payment event")
	ErrInvalidAmbassador   = errors.New("ambassador id must be positive")
	ErrInvalidBuyer        = errors.New("buyer id must be positive")
)

// InvalidItemsError lists the ambassadors the authority rejected. It matches ErrItemsInvalid.
type InvalidItemsError struct {
	IDs []int64
}

func (e *InvalidItemsError) Error() string {
	return fmt.Sprintf("%s: %v", ErrItemsInvalid, e.IDs)
}

func (e *InvalidItemsError) Is(target error) bool {
	return target == ErrItemsInvalid
}

type IllegalTransitionError struct {
	From domain.CheckoutStatus
	To   domain.CheckoutStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal checkout transition %s -> %s", e.From, e.To)
}

// pricingError folds every pricing failure into ErrAuthorityUnreachable: the
// authority could not give an answer, which says nothing about the items.
func pricingError(err error) error {
	return fmt.Errorf("%w: %v", ErrAuthorityUnreachable, err)
}

// AmbassadorValidator is the pricing authority as the services see it.
type AmbassadorValidator interface {
	Validate(ctx context.Context, ambassadorIDs []int64) (*ambassador.ValidationResult, error)
}

func storageError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrCartEmpty):
		return ErrEmptyCart
	// A cart deleted between validation and commit is a concurrent change like any other.
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrCartChanged),
		errors.Is(err, repository.ErrCartNotFound):
		return fmt.Errorf("%s: %w: %v", op, ErrStorageConflict, err)
	case errors.Is(err, repository.ErrPaymentNotFound):
		return ErrPaymentNotFound
	case isConnectivity(err):
		return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isConnectivity reports whether err means the database could not be reached,
// as opposed to rejecting the statement.
func isConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
