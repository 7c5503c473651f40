package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/pricing"
	"hireshop-backend/internal/service"
	"hireshop-backend/internal/tabular"
)

// MockPricingService
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) Import(ctx context.Context, req service.ImportRequest) (*domain.ImportReport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportReport), args.Error(1)
}

func (m *MockPricingService) Export(ctx context.Context, schema pricing.Schema, format tabular.Format) (*service.ExportFile, error) {
	args := m.Called(ctx, schema, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

// MockCheckoutService
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Quote(ctx context.Context, req service.QuoteRequest) (*service.Quote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Quote), args.Error(1)
}

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Calendar(ctx context.Context, assetID int64) (*service.CalendarView, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CalendarView), args.Error(1)
}

func (m *MockBookingService) CheckAvailability(ctx context.Context, assetID int64, interval domain.BookingInterval) error {
	args := m.Called(ctx, assetID, interval)
	return args.Error(0)
}

func (m *MockBookingService) Book(ctx context.Context, assetID int64, interval domain.BookingInterval, orderRef string) (*domain.Booking, error) {
	args := m.Called(ctx, assetID, interval, orderRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
