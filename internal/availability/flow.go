package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/utils"
)

type State string

const (
	StateNoAssetSelected  State = "no_asset_selected"
	StateFetchingCalendar State = "fetching_calendar"
	StateCalendarReady    State = "calendar_ready"
	StateDateRangeChosen  State = "date_range_chosen"
	StateSubmitting       State = "submitting"
	StateBooked           State = "booked"
	StateSubmitFailed     State = "submit_failed"
)

var ErrInvalidTransition = errors.New("invalid booking flow transition")

const DefaultLookaheadDays = 90

// CalendarSource reads the per-day availability rows of an asset.
type CalendarSource interface {
	FetchAssetCalendar(ctx context.Context, assetID int64, start, end time.Time) ([]domain.CalendarDay, error)
}

// Booker performs the authoritative booking write.
type Booker interface {
	CreateBooking(ctx context.Context, assetID int64, interval domain.BookingInterval, orderRef string) (*domain.Booking, error)
}

// Flow walks one booking attempt from asset selection to a confirmed booking. A Flow is
// not safe for concurrent use.
type Flow struct {
	source    CalendarSource
	booker    Booker
	now       func() time.Time
	lookahead int

	state     State
	assetID   int64
	calendar  *Calendar
	fetchedTo time.Time
	interval  domain.BookingInterval
	rangeErr  error
	booking   *domain.Booking
}

func NewFlow(source CalendarSource, booker Booker, lookaheadDays int) *Flow {
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}
	return &Flow{
		source:    source,
		booker:    booker,
		now:       time.Now,
		lookahead: lookaheadDays,
		state:     StateNoAssetSelected,
	}
}

func (f *Flow) WithClock(now func() time.Time) *Flow {
	f.now = now
	return f
}

func (f *Flow) State() State { return f.state }
func (f *Flow) AssetID() int64 { return f.assetID }
func (f *Flow) Calendar() *Calendar { return f.calendar }
func (f *Flow) Interval() domain.BookingInterval { return f.interval }
func (f *Flow) Booking() *domain.Booking { return f.booking }

// RangeError is the reason the chosen range cannot be booked, or nil.
func (f *Flow) RangeError() error { return f.rangeErr }

// Window returns the date range fetched for the calendar.
func (f *Flow) Window() (time.Time, time.Time) {
	start := utils.Tomorrow(f.now())
	return start, start.AddDate(0, 0, f.lookahead)
}

// SelectAsset picks an asset and loads its calendar. Selecting again replaces the
// previous choice. A fetch failure leaves no asset selected.
func (f *Flow) SelectAsset(ctx context.Context, assetID int64) error {
	if f.state == StateSubmitting || f.state == StateBooked {
		return fmt.Errorf("%w: select asset while %s", ErrInvalidTransition, f.state)
	}
	f.assetID = assetID
	f.interval = domain.BookingInterval{}
	f.rangeErr = nil
	f.calendar = nil
	f.state = StateFetchingCalendar

	if err := f.fetch(ctx); err != nil {
		f.assetID = 0
		f.state = StateNoAssetSelected
		return err
	}
	f.state = StateCalendarReady
	return nil
}

func (f *Flow) fetch(ctx context.Context) error {
	start, end := f.Window()
	days, err := f.source.FetchAssetCalendar(ctx, f.assetID, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch calendar for asset %d: %w", f.assetID, err)
	}
	f.calendar = CalendarFromDays(f.assetID, days)
	f.fetchedTo = end
	return nil
}

// ChooseRange records the interval and checks it against the loaded calendar. The
// returned error says why the range is invalid; the flow still moves to
// StateDateRangeChosen so a new range can be chosen. Ranges ending after the fetched
// window are refused with ErrBeyondWindow.
func (f *Flow) ChooseRange(interval domain.BookingInterval) error {
	if f.state != StateCalendarReady && f.state != StateDateRangeChosen {
		return fmt.Errorf("%w: choose range while %s", ErrInvalidTransition, f.state)
	}
	f.interval = interval
	f.rangeErr = Check(interval, f.calendar, f.now())
	if f.rangeErr == nil && utils.DateOf(interval.End).After(f.fetchedTo) {
		f.rangeErr = fmt.Errorf("%w (last bookable day %s)", ErrBeyondWindow, utils.FormatDate(f.fetchedTo))
	}
	f.state = StateDateRangeChosen
	return f.rangeErr
}

// Submit books the chosen range. On failure the calendar is refetched and the flow
// returns to StateCalendarReady; if the refetch also fails it stays in
// StateSubmitFailed until Refresh succeeds.
func (f *Flow) Submit(ctx context.Context, orderRef string) (*domain.Booking, error) {
	if f.state != StateDateRangeChosen {
		return nil, fmt.Errorf("%w: submit while %s", ErrInvalidTransition, f.state)
	}
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}

	f.state = StateSubmitting
	booking, err := f.booker.CreateBooking(ctx, f.assetID, f.interval, orderRef)
	if err == nil {
		f.booking = booking
		f.state = StateBooked
		return booking, nil
	}

	f.state = StateSubmitFailed
	logger.Warn("Booking submit failed", "asset_id", f.assetID,
		"start", utils.FormatDate(f.interval.Start), "end", utils.FormatDate(f.interval.End), "error", err)

	if refreshErr := f.Refresh(ctx); refreshErr != nil {
		return nil, errors.Join(err, refreshErr)
	}
	return nil, err
}

// Refresh refetches the calendar for the selected asset and returns to
// StateCalendarReady. The chosen range is cleared.
func (f *Flow) Refresh(ctx context.Context) error {
	switch f.state {
	case StateCalendarReady, StateDateRangeChosen, StateSubmitFailed:
	default:
		return fmt.Errorf("%w: refresh while %s", ErrInvalidTransition, f.state)
	}
	if err := f.fetch(ctx); err != nil {
		return err
	}
	f.interval = domain.BookingInterval{}
	f.rangeErr = nil
	f.state = StateCalendarReady
	return nil
}
