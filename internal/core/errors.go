package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation failures are client-correctable: the caller fixes its input and
// retries. StockRaceError is different in kind: the catalog moved underneath
// the caller, who should refresh product data before retrying.

var (
	// ErrEmptyCart is returned when a sale is validated with zero lines.
	ErrEmptyCart = errors.New("cart has no lines")

	// ErrMissingCustomer is returned when the customer name is blank.
	ErrMissingCustomer = errors.New("customer name is required")
)

// InvalidQuantityError reports a non-positive line quantity.
type InvalidQuantityError struct {
	ProductID int
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %d: must be positive", e.Quantity, e.ProductID)
}

// NegativeAmountError reports a negative monetary field.
type NegativeAmountError struct {
	Field  string
	Amount decimal.Decimal
}

func (e *NegativeAmountError) Error() string {
	return fmt.Sprintf("%s cannot be negative, got %s", e.Field, e.Amount.String())
}

// PaymentMethodError reports an unrecognized payment method.
type PaymentMethodError struct {
	Method string
}

func (e *PaymentMethodError) Error() string {
	return fmt.Sprintf("unknown payment method %q: must be %s or %s", e.Method, PaymentQRIS, PaymentCash)
}

// InsufficientStockError reports that a requested quantity exceeds the
// product's current on-hand count at validation time.
type InsufficientStockError struct {
	ProductID int
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// InsufficientPaymentError reports that the amount tendered does not cover
// the cart total. No commit is attempted.
type InsufficientPaymentError struct {
	Total    decimal.Decimal
	Tendered decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: total %s, tendered %s",
		e.Total.StringFixed(2), e.Tendered.StringFixed(2))
}

// StockRaceError reports that a concurrent sale exhausted stock between
// validation and commit. The whole commit is rolled back; the caller should
// refresh product data and retry rather than merely fix its input.
type StockRaceError struct {
	ProductID int
	Available int
	Requested int
}

func (e *StockRaceError) Error() string {
	return fmt.Sprintf("stock changed during commit for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}
