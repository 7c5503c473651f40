package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/repository"
	"hireshop-backend/internal/utils"
)

type assetRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewAssetRepository(db *sql.DB, dialect Dialect) repository.AssetRepository {
	return &assetRepository{db: db, dialect: dialect}
}

func (r *assetRepository) GetAsset(ctx context.Context, id int64) (*domain.Asset, error) {
	a := &domain.Asset{}
	query := `SELECT id, product_id, label, status FROM assets WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.ProductID, &a.Label, &a.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assetRepository) FetchAssetCalendar(ctx context.Context, assetID int64, start, end time.Time) ([]domain.CalendarDay, error) {
	query := `SELECT date, is_available, booking_ref FROM asset_calendar
	          WHERE asset_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date`
	logger.DatabaseCall("SELECT", "asset_calendar", "assetID", assetID,
		"start", utils.FormatDate(start), "end", utils.FormatDate(end))

	rows, err := r.db.QueryContext(ctx, query, assetID, utils.DateOf(start), utils.DateOf(end))
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	days := []domain.CalendarDay{}
	for rows.Next() {
		var day domain.CalendarDay
		if err := rows.Scan(&day.Date, &day.IsAvailable, &day.BookingRef); err != nil {
			return nil, err
		}
		day.Date = utils.DateOf(day.Date)
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(days)), nil)
	return days, nil
}

func (r *assetRepository) CreateBooking(ctx context.Context, assetID int64, interval domain.BookingInterval, orderRef string) (*domain.Booking, error) {
	logger.EnterMethod("assetRepository.CreateBooking", "assetID", assetID)

	start, end := utils.DateOf(interval.Start), utils.DateOf(interval.End)
	if end.Before(start) {
		return nil, fmt.Errorf("end date must be >= start date")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var status domain.AssetStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM assets WHERE id = $1`+r.dialect.LockClause, assetID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	if status != domain.AssetStatusActive {
		return nil, repository.ErrAssetRetired
	}

	booking := &domain.Booking{
		Reference: uuid.NewString(),
		AssetID:   assetID,
		OrderRef:  orderRef,
		Interval:  domain.BookingInterval{Start: start, End: end},
		CreatedOn: time.Now().UTC(),
	}
	query := `INSERT INTO bookings (reference, asset_id, order_ref, start_date, end_date, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	logger.DatabaseCall("INSERT", "bookings", "assetID", assetID, "reference", booking.Reference)
	err = tx.QueryRowContext(ctx, query, booking.Reference, assetID, orderRef, start, end, booking.CreatedOn).Scan(&booking.ID)
	logger.DatabaseResult("INSERT", 1, err, "bookingID", booking.ID)
	if err != nil {
		return nil, err
	}

	// A stored available row may be claimed; a blocked one may not.
	block := `INSERT INTO asset_calendar (asset_id, date, is_available, booking_ref) VALUES ($1, $2, FALSE, $3)
	          ON CONFLICT (asset_id, date) DO UPDATE SET is_available = FALSE, booking_ref = EXCLUDED.booking_ref
	          WHERE asset_calendar.is_available`
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		res, err := tx.ExecContext(ctx, block, assetID, day, booking.Reference)
		if err != nil {
			if r.dialect.IsUniqueViolation != nil && r.dialect.IsUniqueViolation(err) {
				return nil, fmt.Errorf("%w: %s", repository.ErrDateTaken, utils.FormatDate(day))
			}
			return nil, err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return nil, fmt.Errorf("%w: %s", repository.ErrDateTaken, utils.FormatDate(day))
		}
	}

	if err := tx.Commit(); err != nil {
		if r.dialect.IsUniqueViolation != nil && r.dialect.IsUniqueViolation(err) {
			return nil, repository.ErrDateTaken
		}
		return nil, err
	}

	logger.ExitMethod("assetRepository.CreateBooking", "assetID", assetID, "reference", booking.Reference)
	return booking, nil
}
