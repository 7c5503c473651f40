// Package discount computes line and order totals from layered discounts. Amounts
// keep full precision; rounding is left to whoever displays them.
package discount

import (
	"github.com/shopspring/decimal"

	"hireshop-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// LineTotal returns the line's amount before and after its own discount.
//
// A percentage line discount is not floored at zero, so a discount above 100% gives a
// negative line. Order discounts and fixed line discounts are floored.
func LineTotal(item domain.LineItem) domain.LineAmounts {
	original := item.UnitPrice.Mul(item.Quantity)
	amounts := domain.LineAmounts{Original: original, Discounted: original}
	if item.Discount == nil {
		return amounts
	}

	switch item.Discount.Kind {
	case domain.DiscountPercentage:
		amounts.Discounted = original.Mul(decimal.NewFromInt(1).Sub(item.Discount.Value.Div(hundred)))
	case domain.DiscountFixed:
		amounts.Discounted = decimal.Max(decimal.Zero, original.Sub(item.Discount.Value))
	}
	return amounts
}

// OrderSubtotal sums the discounted line totals.
func OrderSubtotal(items []domain.LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item).Discounted)
	}
	return subtotal
}

// OrderDiscountAmount is what the order-level discount takes off subtotal.
func OrderDiscountAmount(subtotal decimal.Decimal, orderDiscount *domain.DiscountSpec) decimal.Decimal {
	if orderDiscount == nil {
		return decimal.Zero
	}
	switch orderDiscount.Kind {
	case domain.DiscountPercentage:
		return subtotal.Mul(orderDiscount.Value).Div(hundred)
	case domain.DiscountFixed:
		return orderDiscount.Value
	}
	return decimal.Zero
}

// OrderTotal applies the order discount to the subtotal of already discounted lines,
// flooring the result at zero.
func OrderTotal(items []domain.LineItem, orderDiscount *domain.DiscountSpec) decimal.Decimal {
	return Compute(domain.Cart{Lines: items, OrderDiscount: orderDiscount}).Total
}

// Compute derives the order totals for a cart.
func Compute(cart domain.Cart) domain.OrderTotals {
	subtotal := OrderSubtotal(cart.Lines)
	amount := OrderDiscountAmount(subtotal, cart.OrderDiscount)
	return domain.OrderTotals{
		Subtotal:            subtotal,
		OrderDiscountAmount: amount,
		Total:               decimal.Max(decimal.Zero, subtotal.Sub(amount)),
	}
}
