package discount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"hireshop-backend/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pct(v string) *domain.DiscountSpec {
	return &domain.DiscountSpec{Kind: domain.DiscountPercentage, Value: d(v)}
}

func fixed(v string) *domain.DiscountSpec {
	return &domain.DiscountSpec{Kind: domain.DiscountFixed, Value: d(v)}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "expected %s, got %s", want, got)
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name       string
		item       domain.LineItem
		original   string
		discounted string
	}{
		{"no discount", domain.LineItem{UnitPrice: d("19.99"), Quantity: d("3")}, "59.97", "59.97"},
		{"percentage", domain.LineItem{UnitPrice: d("100"), Quantity: d("2"), Discount: pct("10")}, "200", "180"},
		{"fixed", domain.LineItem{UnitPrice: d("40"), Quantity: d("1"), Discount: fixed("15")}, "40", "25"},
		{"fixed floors at zero", domain.LineItem{UnitPrice: d("10"), Quantity: d("1"), Discount: fixed("25")}, "10", "0"},
		// Over 100% is computed, not clamped.
		{"percentage over 100 goes negative", domain.LineItem{UnitPrice: d("50"), Quantity: d("1"), Discount: pct("120")}, "50", "-10"},
		{"hire days as quantity", domain.LineItem{UnitPrice: d("45.50"), Quantity: d("4"), Discount: pct("12.5")}, "182", "159.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(tt.item)
			assertDecimal(t, tt.original, got.Original)
			assertDecimal(t, tt.discounted, got.Discounted)
		})
	}
}

func TestOrderTotal(t *testing.T) {
	line := domain.LineItem{UnitPrice: d("100"), Quantity: d("2"), Discount: pct("10")}

	t.Run("Line then order discount", func(t *testing.T) {
		assertDecimal(t, "130", OrderTotal([]domain.LineItem{line}, fixed("50")))
	})

	t.Run("No order discount", func(t *testing.T) {
		assertDecimal(t, "180", OrderTotal([]domain.LineItem{line}, nil))
	})

	t.Run("Order percentage floors at zero", func(t *testing.T) {
		assertDecimal(t, "0", OrderTotal([]domain.LineItem{line}, pct("150")))
	})

	t.Run("Order fixed floors at zero", func(t *testing.T) {
		assertDecimal(t, "0", OrderTotal([]domain.LineItem{line}, fixed("500")))
	})

	t.Run("Negative line feeds the subtotal", func(t *testing.T) {
		lines := []domain.LineItem{
			line,
			{UnitPrice: d("50"), Quantity: d("1"), Discount: pct("120")},
		}
		assertDecimal(t, "170", OrderSubtotal(lines))
		assertDecimal(t, "120", OrderTotal(lines, fixed("50")))
	})

	t.Run("Empty cart", func(t *testing.T) {
		assertDecimal(t, "0", OrderTotal(nil, fixed("5")))
	})
}

func TestCompute(t *testing.T) {
	cart := domain.Cart{
		Lines: []domain.LineItem{
			{UnitPrice: d("0.10"), Quantity: d("3")},
			{UnitPrice: d("33.333"), Quantity: d("3"), Discount: fixed("0.009")},
		},
		OrderDiscount: pct("10"),
	}

	totals := Compute(cart)
	assertDecimal(t, "100.29", totals.Subtotal)
	assertDecimal(t, "10.029", totals.OrderDiscountAmount)
	assertDecimal(t, "90.261", totals.Total)
}

func TestCompose_MatchesFormula(t *testing.T) {
	lines := []domain.LineItem{
		{UnitPrice: d("12.34"), Quantity: d("5"), Discount: pct("7")},
		{UnitPrice: d("99.99"), Quantity: d("2"), Discount: fixed("20")},
		{UnitPrice: d("5"), Quantity: d("10")},
	}
	for _, od := range []*domain.DiscountSpec{nil, pct("15"), fixed("40"), fixed("10000")} {
		sum := decimal.Zero
		for _, l := range lines {
			sum = sum.Add(LineTotal(l).Discounted)
		}
		want := decimal.Max(decimal.Zero, sum.Sub(OrderDiscountAmount(sum, od)))
		assertDecimal(t, want.String(), OrderTotal(lines, od))
	}
}

func TestDiscountSpec_Validate(t *testing.T) {
	assert.NoError(t, pct("150").Validate())
	assert.NoError(t, fixed("0.01").Validate())
	assert.ErrorIs(t, pct("0").Validate(), domain.ErrInvalidDiscount)
	assert.ErrorIs(t, fixed("-5").Validate(), domain.ErrInvalidDiscount)
	assert.ErrorIs(t, (&domain.DiscountSpec{Kind: "bogo", Value: d("1")}).Validate(), domain.ErrInvalidDiscount)
}
