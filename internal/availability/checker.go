// Package availability pre-checks hire bookings against an asset's blocked dates.
// The check is advisory; the booking store enforces uniqueness when it writes.
package availability

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/utils"
)

var (
	ErrStartTooSoon    = errors.New("bookings must start tomorrow or later")
	ErrInvertedRange   = errors.New("end date must be on or after start date")
	ErrDateUnavailable = errors.New("date is not available")
	// ErrBeyondWindow is returned for ranges ending after the loaded calendar.
	ErrBeyondWindow    = errors.New("end date is past the booking window")
)

// UnavailableError names the first blocked date inside a requested interval.
type UnavailableError struct {
	Date       time.Time
	BookingRef *string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s is not available", utils.FormatDate(e.Date))
}

func (e *UnavailableError) Unwrap() error {
	return ErrDateUnavailable
}

// Calendar is the set of blocked dates for one asset.
type Calendar struct {
	AssetID int64
	blocked map[time.Time]*string
}

func NewCalendar(assetID int64, blocked ...time.Time) *Calendar {
	c := &Calendar{AssetID: assetID, blocked: make(map[time.Time]*string, len(blocked))}
	for _, day := range blocked {
		c.Block(day, nil)
	}
	return c
}

// CalendarFromDays builds a calendar from store rows, keeping the unavailable ones.
func CalendarFromDays(assetID int64, days []domain.CalendarDay) *Calendar {
	c := NewCalendar(assetID)
	for _, day := range days {
		if !day.IsAvailable {
			c.Block(day.Date, day.BookingRef)
		}
	}
	return c
}

func (c *Calendar) Block(day time.Time, bookingRef *string) {
	c.blocked[utils.DateOf(day)] = bookingRef
}

func (c *Calendar) IsBlocked(day time.Time) bool {
	_, ok := c.blocked[utils.DateOf(day)]
	return ok
}

func (c *Calendar) Len() int {
	return len(c.blocked)
}

// BlockedDates returns the blocked dates in ascending order.
func (c *Calendar) BlockedDates() []time.Time {
	dates := make([]time.Time, 0, len(c.blocked))
	for day := range c.blocked {
		dates = append(dates, day)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Days returns one CalendarDay per blocked date, ascending.
func (c *Calendar) Days() []domain.CalendarDay {
	dates := c.BlockedDates()
	days := make([]domain.CalendarDay, len(dates))
	for i, day := range dates {
		days[i] = domain.CalendarDay{Date: day, IsAvailable: false, BookingRef: c.blocked[day]}
	}
	return days
}

// Check returns nil when interval can be booked on cal given today's date. It
// reports the earliest blocked date inside the interval.
func Check(interval domain.BookingInterval, cal *Calendar, today time.Time) error {
	start, end := utils.DateOf(interval.Start), utils.DateOf(interval.End)
	if end.Before(start) {
		return ErrInvertedRange
	}
	if start.Before(utils.Tomorrow(today)) {
		return ErrStartTooSoon
	}
	if cal == nil {
		return nil
	}

	var first *UnavailableError
	for day, ref := range cal.blocked {
		if day.Before(start) || day.After(end) {
			continue
		}
		if first == nil || day.Before(first.Date) {
			first = &UnavailableError{Date: day, BookingRef: ref}
		}
	}
	if first != nil {
		return first
	}
	return nil
}

// IsBookable is Check reduced to a yes or no.
func IsBookable(interval domain.BookingInterval, cal *Calendar, today time.Time) bool {
	return Check(interval, cal, today) == nil
}
