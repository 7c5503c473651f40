package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

var ErrInvalidDiscount = errors.New("invalid discount")

type DiscountSpec struct {
	Kind  DiscountKind    `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Validate checks the kind and that Value is strictly positive. Percentages above 100
// are accepted.
func (d DiscountSpec) Validate() error {
	switch d.Kind {
	case DiscountPercentage, DiscountFixed:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDiscount, d.Kind)
	}
	if !d.Value.IsPositive() {
		return fmt.Errorf("%w: value must be greater than zero", ErrInvalidDiscount)
	}
	return nil
}

// LineItem is one cart line. Quantity is a unit count for sale lines and a day count
// for hire lines.
type LineItem struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Discount  *DiscountSpec   `json:"discount,omitempty"`
}

type LineAmounts struct {
	Original   decimal.Decimal `json:"original"`
	Discounted decimal.Decimal `json:"discounted"`
}

// Cart is the explicit discount context handed to the engine.
type Cart struct {
	Lines         []LineItem    `json:"lines"`
	OrderDiscount *DiscountSpec `json:"order_discount,omitempty"`
}

type OrderTotals struct {
	Subtotal            decimal.Decimal `json:"subtotal"`
	OrderDiscountAmount decimal.Decimal `json:"order_discount_amount"`
	Total               decimal.Decimal `json:"total"`
}
