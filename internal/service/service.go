package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"hireshop-backend/internal/availability"
	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/pricing"
	"hireshop-backend/internal/tabular"
)

type PricingService interface {
	// Import validates and applies a price file. Rejected files come back as a report
	// with FileRejected set; the error is reserved for failures outside the file.
	Import(ctx context.Context, req ImportRequest) (*domain.ImportReport, error)
	// Export renders the current pricing for schema.
	Export(ctx context.Context, schema pricing.Schema, format tabular.Format) (*ExportFile, error)
}

type CheckoutService interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
}

type BookingService interface {
	Calendar(ctx context.Context, assetID int64) (*CalendarView, error)
	// CheckAvailability returns nil when the interval can be booked, otherwise the
	// reason it cannot.
	CheckAvailability(ctx context.Context, assetID int64, interval domain.BookingInterval) error
	Book(ctx context.Context, assetID int64, interval domain.BookingInterval, orderRef string) (*domain.Booking, error)
}

// ReportMailer delivers import reports to an operator.
type ReportMailer interface {
	SendImportReport(ctx context.Context, to string, report domain.ImportReport) error
}

type ImportRequest struct {
	Content  []byte
	Format   tabular.Format
	Schema   pricing.Schema
	FileName string
}

type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
	Rows        int
}

type QuoteLine struct {
	SKU         string                  `json:"sku"`
	ProductType domain.ProductType      `json:"product_type"`
	UnitPrice   decimal.Decimal         `json:"unit_price"`
	Quantity    decimal.Decimal         `json:"quantity"`
	AssetID     int64                   `json:"asset_id,omitempty"`
	Hire        *domain.BookingInterval `json:"hire,omitempty"`
	Discount    *domain.DiscountSpec    `json:"discount,omitempty"`
}

type QuoteRequest struct {
	Lines         []QuoteLine          `json:"lines"`
	OrderDiscount *domain.DiscountSpec `json:"order_discount,omitempty"`
}

type QuotedLine struct {
	SKU      string             `json:"sku"`
	Quantity decimal.Decimal    `json:"quantity"`
	Amounts  domain.LineAmounts `json:"amounts"`
}

type Quote struct {
	Lines  []QuotedLine       `json:"lines"`
	Totals domain.OrderTotals `json:"totals"`
}

type CalendarView struct {
	AssetID  int64
	From     time.Time
	To       time.Time
	Calendar *availability.Calendar
}
