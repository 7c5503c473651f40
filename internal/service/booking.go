package service

import (
	"context"
	"sync"
	"time"

	"hireshop-backend/internal/availability"
	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/repository"
)

type BookingOptions struct {
	LookaheadDays int
	CacheTTL      time.Duration
	Now           func() time.Time
}

type bookingService struct {
	assets repository.AssetRepository
	cache  *calendarCache
	opts   BookingOptions
}

func NewBookingService(assets repository.AssetRepository, opts BookingOptions) BookingService {
	if opts.LookaheadDays <= 0 {
		opts.LookaheadDays = availability.DefaultLookaheadDays
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &bookingService{
		assets: assets,
		cache:  newCalendarCache(assets, opts.CacheTTL, opts.Now),
		opts:   opts,
	}
}

// flow starts a booking flow for assetID with its calendar loaded.
func (s *bookingService) flow(ctx context.Context, assetID int64) (*availability.Flow, error) {
	if _, err := s.assets.GetAsset(ctx, assetID); err != nil {
		return nil, err
	}
	f := availability.NewFlow(s.cache, &invalidatingBooker{assets: s.assets, cache: s.cache}, s.opts.LookaheadDays).
		WithClock(s.opts.Now)
	if err := f.SelectAsset(ctx, assetID); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *bookingService) Calendar(ctx context.Context, assetID int64) (*CalendarView, error) {
	f, err := s.flow(ctx, assetID)
	if err != nil {
		return nil, err
	}
	from, to := f.Window()
	return &CalendarView{AssetID: assetID, From: from, To: to, Calendar: f.Calendar()}, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, assetID int64, interval domain.BookingInterval) error {
	f, err := s.flow(ctx, assetID)
	if err != nil {
		return err
	}
	return f.ChooseRange(interval)
}

func (s *bookingService) Book(ctx context.Context, assetID int64, interval domain.BookingInterval, orderRef string) (*domain.Booking, error) {
	f, err := s.flow(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if err := f.ChooseRange(interval); err != nil {
		return nil, err
	}
	booking, err := f.Submit(ctx, orderRef)
	if err != nil {
		return nil, err
	}
	logger.Info("Asset booked", "asset_id", assetID, "reference", booking.Reference, "order_ref", orderRef)
	return booking, nil
}

// invalidatingBooker drops the cached calendar after every booking attempt so the
// flow's refetch sees the store's current state.
type invalidatingBooker struct {
	assets repository.AssetRepository
	cache  *calendarCache
}

func (b *invalidatingBooker) CreateBooking(ctx context.Context, assetID int64, interval domain.BookingInterval, orderRef string) (*domain.Booking, error) {
	defer b.cache.Invalidate(assetID)
	return b.assets.CreateBooking(ctx, assetID, interval, orderRef)
}

type calendarEntry struct {
	start, end time.Time
	days       []domain.CalendarDay
	fetchedAt  time.Time
}

// calendarCache keeps the last fetched calendar window per asset for ttl.
type calendarCache struct {
	source availability.CalendarSource
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[int64]calendarEntry
}

func newCalendarCache(source availability.CalendarSource, ttl time.Duration, now func() time.Time) *calendarCache {
	return &calendarCache{source: source, ttl: ttl, now: now, entries: make(map[int64]calendarEntry)}
}

func (c *calendarCache) FetchAssetCalendar(ctx context.Context, assetID int64, start, end time.Time) ([]domain.CalendarDay, error) {
	if c.ttl > 0 {
		c.mu.Lock()
		entry, ok := c.entries[assetID]
		c.mu.Unlock()
		if ok && entry.start.Equal(start) && entry.end.Equal(end) && c.now().Sub(entry.fetchedAt) < c.ttl {
			return entry.days, nil
		}
	}

	days, err := c.source.FetchAssetCalendar(ctx, assetID, start, end)
	if err != nil {
		return nil, err
	}
	if c.ttl > 0 {
		c.mu.Lock()
		c.entries[assetID] = calendarEntry{start: start, end: end, days: days, fetchedAt: c.now()}
		c.mu.Unlock()
	}
	return days, nil
}

func (c *calendarCache) Invalidate(assetID int64) {
	c.mu.Lock()
	delete(c.entries, assetID)
	c.mu.Unlock()
}
