package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hireshop-backend/internal/domain"
)

type MockCalendarSource struct {
	mock.Mock
}

func (m *MockCalendarSource) FetchAssetCalendar(ctx context.Context, assetID int64, start, end time.Time) ([]domain.CalendarDay, error) {
	args := m.Called(ctx, assetID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CalendarDay), args.Error(1)
}

type MockBooker struct {
	mock.Mock
}

func (m *MockBooker) CreateBooking(ctx context.Context, assetID int64, iv domain.BookingInterval, orderRef string) (*domain.Booking, error) {
	args := m.Called(ctx, assetID, iv, orderRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

var flowNow = time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)

func newTestFlow(source CalendarSource, booker Booker) *Flow {
	return NewFlow(source, booker, 30).WithClock(func() time.Time { return flowNow })
}

func blockedDay(s string) domain.CalendarDay {
	return domain.CalendarDay{Date: date(s), IsAvailable: false}
}

func TestFlow_HappyPath(t *testing.T) {
	ctx := context.Background()
	source := new(MockCalendarSource)
	booker := new(MockBooker)
	flow := newTestFlow(source, booker)

	start, end := flow.Window()
	assert.Equal(t, date("2025-10-02"), start)
	assert.Equal(t, date("2025-11-01"), end)

	source.On("FetchAssetCalendar", ctx, int64(5), start, end).
		Return([]domain.CalendarDay{blockedDay("2025-10-10")}, nil)

	assert.Equal(t, StateNoAssetSelected, flow.State())
	require.NoError(t, flow.SelectAsset(ctx, 5))
	assert.Equal(t, StateCalendarReady, flow.State())
	assert.True(t, flow.Calendar().IsBlocked(date("2025-10-10")))

	// Invalid first, then a valid choice.
	assert.ErrorIs(t, flow.ChooseRange(interval("2025-10-09", "2025-10-11")), ErrDateUnavailable)
	assert.Equal(t, StateDateRangeChosen, flow.State())
	_, err := flow.Submit(ctx, "ORD-1")
	assert.ErrorIs(t, err, ErrDateUnavailable)

	iv := interval("2025-10-11", "2025-10-12")
	require.NoError(t, flow.ChooseRange(iv))

	booking := &domain.Booking{Reference: "BK-1", AssetID: 5, Interval: iv}
	booker.On("CreateBooking", ctx, int64(5), iv, "ORD-1").Return(booking, nil)

	got, err := flow.Submit(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, booking, got)
	assert.Equal(t, StateBooked, flow.State())

	assert.ErrorIs(t, flow.SelectAsset(ctx, 6), ErrInvalidTransition)
	assert.ErrorIs(t, flow.ChooseRange(iv), ErrInvalidTransition)
}

func TestFlow_SubmitFailureRefetchesCalendar(t *testing.T) {
	ctx := context.Background()
	source := new(MockCalendarSource)
	booker := new(MockBooker)
	flow := newTestFlow(source, booker)
	start, end := flow.Window()

	source.On("FetchAssetCalendar", ctx, int64(5), start, end).
		Return([]domain.CalendarDay{}, nil).Once()
	source.On("FetchAssetCalendar", ctx, int64(5), start, end).
		Return([]domain.CalendarDay{blockedDay("2025-10-11")}, nil).Once()

	require.NoError(t, flow.SelectAsset(ctx, 5))
	iv := interval("2025-10-11", "2025-10-12")
	require.NoError(t, flow.ChooseRange(iv))

	taken := errors.New("date already booked")
	booker.On("CreateBooking", ctx, int64(5), iv, "").Return(nil, taken)

	_, err := flow.Submit(ctx, "")
	assert.ErrorIs(t, err, taken)
	assert.Equal(t, StateCalendarReady, flow.State())
	assert.True(t, flow.Calendar().IsBlocked(date("2025-10-11")))
	assert.Equal(t, domain.BookingInterval{}, flow.Interval())
	source.AssertNumberOfCalls(t, "FetchAssetCalendar", 2)

	// The refreshed calendar now rejects the same range locally.
	assert.ErrorIs(t, flow.ChooseRange(iv), ErrDateUnavailable)
}

func TestFlow_SubmitFailureWithRefetchFailure(t *testing.T) {
	ctx := context.Background()
	source := new(MockCalendarSource)
	booker := new(MockBooker)
	flow := newTestFlow(source, booker)
	start, end := flow.Window()

	source.On("FetchAssetCalendar", ctx, int64(2), start, end).Return([]domain.CalendarDay{}, nil).Once()
	source.On("FetchAssetCalendar", ctx, int64(2), start, end).Return(nil, errors.New("db down")).Once()
	source.On("FetchAssetCalendar", ctx, int64(2), start, end).Return([]domain.CalendarDay{}, nil).Once()

	require.NoError(t, flow.SelectAsset(ctx, 2))
	iv := interval("2025-10-05", "2025-10-05")
	require.NoError(t, flow.ChooseRange(iv))

	taken := errors.New("conflict")
	booker.On("CreateBooking", ctx, int64(2), iv, "").Return(nil, taken)

	_, err := flow.Submit(ctx, "")
	assert.ErrorIs(t, err, taken)
	assert.Contains(t, err.Error(), "db down")
	assert.Equal(t, StateSubmitFailed, flow.State())

	require.NoError(t, flow.Refresh(ctx))
	assert.Equal(t, StateCalendarReady, flow.State())
}

func TestFlow_FetchFailureLeavesNoAsset(t *testing.T) {
	ctx := context.Background()
	source := new(MockCalendarSource)
	flow := newTestFlow(source, new(MockBooker))
	start, end := flow.Window()

	source.On("FetchAssetCalendar", ctx, int64(9), start, end).Return(nil, errors.New("timeout"))

	err := flow.SelectAsset(ctx, 9)
	assert.Error(t, err)
	assert.Equal(t, StateNoAssetSelected, flow.State())
	assert.Zero(t, flow.AssetID())
	assert.ErrorIs(t, flow.ChooseRange(interval("2025-10-05", "2025-10-06")), ErrInvalidTransition)
}

func TestFlow_SubmitWithoutRange(t *testing.T) {
	flow := newTestFlow(new(MockCalendarSource), new(MockBooker))
	_, err := flow.Submit(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFlow_RangePastWindow(t *testing.T) {
	ctx := context.Background()
	source := new(MockCalendarSource)
	flow := newTestFlow(source, new(MockBooker))
	start, end := flow.Window()

	// Days after the window are never fetched, so a booking there is invisible.
	source.On("FetchAssetCalendar", ctx, int64(5), start, end).Return([]domain.CalendarDay{}, nil)
	require.NoError(t, flow.SelectAsset(ctx, 5))

	assert.NoError(t, flow.ChooseRange(interval("2025-10-30", "2025-11-01")))

	err := flow.ChooseRange(interval("2025-10-31", "2025-11-02"))
	assert.ErrorIs(t, err, ErrBeyondWindow)
	assert.Equal(t, StateDateRangeChosen, flow.State())

	_, err = flow.Submit(ctx, "")
	assert.ErrorIs(t, err, ErrBeyondWindow)
	assert.Equal(t, StateDateRangeChosen, flow.State())
}
