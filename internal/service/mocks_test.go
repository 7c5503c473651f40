package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hireshop-backend/internal/domain"
)

// MockPricingRepo
type MockPricingRepo struct {
	mock.Mock
}

func (m *MockPricingRepo) ApplyPriceUpdate(ctx context.Context, cmd domain.PriceUpdateCommand) (*domain.PricingRecord, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PricingRecord), args.Error(1)
}

func (m *MockPricingRepo) ListCurrent(ctx context.Context, kind domain.SubjectKind) ([]domain.PricingRecord, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).([]domain.PricingRecord), args.Error(1)
}

// MockAssetRepo
type MockAssetRepo struct {
	mock.Mock
}

func (m *MockAssetRepo) GetAsset(ctx context.Context, id int64) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepo) FetchAssetCalendar(ctx context.Context, assetID int64, start, end time.Time) ([]domain.CalendarDay, error) {
	args := m.Called(ctx, assetID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CalendarDay), args.Error(1)
}

func (m *MockAssetRepo) CreateBooking(ctx context.Context, assetID int64, interval domain.BookingInterval, orderRef string) (*domain.Booking, error) {
	args := m.Called(ctx, assetID, interval, orderRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

// MockAvailability
type MockAvailability struct {
	mock.Mock
}

func (m *MockAvailability) CheckAvailability(ctx context.Context, assetID int64, interval domain.BookingInterval) error {
	args := m.Called(ctx, assetID, interval)
	return args.Error(0)
}
