package domain

import "time"

type AssetStatus string

const (
	AssetStatusActive  AssetStatus = "ACTIVE"
	AssetStatusRetired AssetStatus = "RETIRED"
)

// Asset is a specific rentable unit of a hire product.
type Asset struct {
	ID        int64       `json:"id"`
	ProductID int64       `json:"product_id"`
	Label     string      `json:"label"`
	Status    AssetStatus `json:"status"`
}

// CalendarDay is one row of an asset's availability calendar.
type CalendarDay struct {
	Date        time.Time `json:"date"`
	IsAvailable bool      `json:"is_available"`
	BookingRef  *string   `json:"booking_ref,omitempty"`
}

// BookingInterval is inclusive on both ends.
type BookingInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Booking struct {
	ID        int64           `json:"id"`
	Reference string          `json:"reference"`
	AssetID   int64           `json:"asset_id"`
	OrderRef  string          `json:"order_ref,omitempty"`
	Interval  BookingInterval `json:"interval"`
	CreatedOn time.Time       `json:"created_on"`
}
