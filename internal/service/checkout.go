package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"hireshop-backend/internal/discount"
	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/utils"
)

var ErrInvalidQuote = errors.New("invalid quote request")

// AvailabilityChecker confirms a hire line's asset is free for its interval.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, assetID int64, interval domain.BookingInterval) error
}

type checkoutService struct {
	availability AvailabilityChecker
}

// NewCheckoutService returns a quote service. availability may be nil, in which case
// hire lines are priced without an availability check.
func NewCheckoutService(availability AvailabilityChecker) CheckoutService {
	return &checkoutService{availability: availability}
}

func (s *checkoutService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	cart := domain.Cart{OrderDiscount: req.OrderDiscount}
	if req.OrderDiscount != nil {
		if err := req.OrderDiscount.Validate(); err != nil {
			return nil, fmt.Errorf("%w: order discount: %v", ErrInvalidQuote, err)
		}
	}

	quote := &Quote{Lines: make([]QuotedLine, 0, len(req.Lines))}
	for i, line := range req.Lines {
		item, err := s.lineItem(ctx, line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidQuote, i+1, err)
		}
		cart.Lines = append(cart.Lines, item)
		quote.Lines = append(quote.Lines, QuotedLine{
			SKU:      line.SKU,
			Quantity: item.Quantity,
			Amounts:  discount.LineTotal(item),
		})
	}

	quote.Totals = discount.Compute(cart)
	logger.Debug("Quote computed", "lines", len(cart.Lines), "total", quote.Totals.Total.String())
	return quote, nil
}

func (s *checkoutService) lineItem(ctx context.Context, line QuoteLine) (domain.LineItem, error) {
	item := domain.LineItem{UnitPrice: line.UnitPrice, Quantity: line.Quantity, Discount: line.Discount}
	if line.UnitPrice.IsNegative() {
		return item, errors.New("unit price must not be negative")
	}
	if line.Discount != nil {
		if err := line.Discount.Validate(); err != nil {
			return item, err
		}
	}

	switch line.ProductType {
	case domain.ProductTypeHire:
		if line.Hire == nil {
			return item, errors.New("hire lines need a start and end date")
		}
		days, err := utils.DaysInclusive(line.Hire.Start, line.Hire.End)
		if err != nil {
			return item, err
		}
		item.Quantity = decimal.NewFromInt(int64(days))
		if line.AssetID != 0 && s.availability != nil {
			if err := s.availability.CheckAvailability(ctx, line.AssetID, *line.Hire); err != nil {
				return item, err
			}
		}
	case domain.ProductTypeSale, "":
		if !line.Quantity.IsPositive() {
			return item, errors.New("quantity must be greater than zero")
		}
	default:
		return item, fmt.Errorf("unknown product type %q", line.ProductType)
	}
	return item, nil
}
