package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for state-machine and validation failures. Handlers map
// these to HTTP statuses with errors.Is.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbiddenBranch   = errors.New("entity belongs to a different branch")
	ErrInvalidCreditInfo = errors.New("credit sale requires customer name or phone")
	ErrNotCreditSale     = errors.New("sale is not a credit sale")
	ErrAlreadySettled    = errors.New("credit sale is no longer open")
	ErrAlreadyClosed     = errors.New("session is already closed")
	ErrAlreadyOpen       = errors.New("an open session already exists for this cashier")
	ErrNoOpenSession     = errors.New("no open session for this cashier")
	ErrNotTracked        = errors.New("product does not track inventory")
	ErrVariantRequired   = errors.New("product has variants; adjust a specific variant")
	ErrConflict          = errors.New("concurrent update conflict")
)

// InsufficientStockError is returned when a stock decrement would go
// negative. Carries the amounts needed to explain the failure to a cashier.
type InsufficientStockError struct {
	Item      string
	Current   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: have %s, need %s",
		e.Item, e.Current.String(), e.Requested.String())
}

// InsufficientCapitalError is returned when a cashback debit would push the
// branch capital pool below zero.
type InsufficientCapitalError struct {
	Current   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientCapitalError) Error() string {
	return fmt.Sprintf("insufficient cashback capital: have %s, requested %s",
		e.Current.String(), e.Requested.String())
}

// InsufficientPaymentError is returned when a non-credit checkout's payments
// sum below the total. Shortfall = total - paid.
type InsufficientPaymentError struct {
	Shortfall decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("payments short by %s", e.Shortfall.String())
}
