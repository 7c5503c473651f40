package repository

import (
	"context"
	"errors"
	"time"

	"hireshop-backend/internal/domain"
)

var (
	ErrUnknownSubject      = errors.New("unknown pricing subject")
	ErrProductTypeMismatch = errors.New("product type does not match current pricing")
	ErrEffectiveDateBefore = errors.New("effective date is before the current pricing record")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrAssetRetired        = errors.New("asset is retired")
	ErrDateTaken           = errors.New("date already booked")
)

// PricingRepository owns effective-dated pricing rows for products and supplier
// listings.
type PricingRepository interface {
	// ApplyPriceUpdate ends the subject's current record at cmd.EffectiveFrom and
	// inserts a new current record carrying the new amount.
	ApplyPriceUpdate(ctx context.Context, cmd domain.PriceUpdateCommand) (*domain.PricingRecord, error)
	ListCurrent(ctx context.Context, kind domain.SubjectKind) ([]domain.PricingRecord, error)
}

type AssetRepository interface {
	GetAsset(ctx context.Context, id int64) (*domain.Asset, error)
	// FetchAssetCalendar returns the stored calendar rows for start..end inclusive,
	// ordered by date. Days without a row are available.
	FetchAssetCalendar(ctx context.Context, assetID int64, start, end time.Time) ([]domain.CalendarDay, error)
	// CreateBooking blocks every day of the interval for the asset in one
	// transaction. A day that is already blocked fails the whole booking with
	// ErrDateTaken.
	CreateBooking(ctx context.Context, assetID int64, interval domain.BookingInterval, orderRef string) (*domain.Booking, error)
}
