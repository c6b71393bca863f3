package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Business failures are a closed set of typed errors so handlers can map each
// variant to a status code instead of string-matching messages.

var (
	// ErrInvoiceSequenceExhausted is returned when more than 9999 purchases
	// have already been recorded for the calendar day. The 4-digit suffix is
	// never widened or wrapped.
	ErrInvoiceSequenceExhausted = errors.New("invoice sequence exhausted for the day")

	// ErrInvoiceAllocationFailed is returned when every retry attempt lost
	// the invoice-number race. No purchase exists; the caller may retry the
	// whole checkout.
	ErrInvoiceAllocationFailed = errors.New("could not allocate a unique invoice number")
)

// StockItemNotFoundError reports a cart line referencing a missing item.
type StockItemNotFoundError struct {
	StockItemID uuid.UUID
}

func (e *StockItemNotFoundError) Error() string {
	return fmt.Sprintf("stock item %s not found", e.StockItemID)
}

// InsufficientStockError carries available vs requested quantities so the UI
// can show a precise message.
type InsufficientStockError struct {
	StockItemID uuid.UUID
	HumanCode   string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.HumanCode, e.Available, e.Requested)
}

// SplitPaymentMismatchError reports split payment amounts that do not sum to
// the purchase total within the 0.01 tolerance.
type SplitPaymentMismatchError struct {
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *SplitPaymentMismatchError) Error() string {
	return fmt.Sprintf("split payments sum to %s, expected %s", e.Actual, e.Expected)
}

// ValidationError is a request-shape failure caught before any transaction opens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// TransactionError wraps an infrastructure failure (timeout, deadlock,
// connection loss). The underlying transaction fully rolled back, so the
// caller may safely retry the checkout.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string { return "purchase transaction failed: " + e.Err.Error() }
func (e *TransactionError) Unwrap() error { return e.Err }
