package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be a positive whole number")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrPriceUnavailable   = errors.New("price unavailable")
	ErrLedgerNotFound     = errors.New("ledger not found")
	ErrAlreadyExists      = errors.New("ledger already exists")
	ErrBusy               = errors.New("ledger busy")
)

// RejectionError wraps one of the sentinel errors with enough detail for
// the caller to explain the failure: which constraint tripped, what the
// order needed and what the ledger had.
type RejectionError struct {
	Sentinel  error
	Needed    decimal.Decimal
	Available decimal.Decimal
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: need %s, have %s", e.Sentinel.Error(), e.Needed.StringFixed(2), e.Available.StringFixed(2))
}

func (e *RejectionError) Unwrap() error {
	return e.Sentinel
}

func reject(sentinel error, needed, available decimal.Decimal) error {
	return &RejectionError{Sentinel: sentinel, Needed: needed, Available: available}
}
