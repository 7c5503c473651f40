package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hireshop-backend/internal/config"
	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/pricing"
	"hireshop-backend/internal/service"
	"hireshop-backend/internal/storage"
	"hireshop-backend/internal/tabular"
)

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

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendImportReport(ctx context.Context, to string, report domain.ImportReport) error {
	args := m.Called(ctx, to, report)
	return args.Error(0)
}

type fixture struct {
	runner  *JobRunner
	files   *storage.LocalStorage
	pricing *MockPricingService
	mailer  *MockMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	cfg := &config.Config{Pricing: config.PricingConfig{
		ExportDir:       "exports",
		InboxDir:        "inbox",
		ArchiveDir:      "archive",
		ReportRecipient: "ops@hireshop.test",
	}}
	f := &fixture{files: files, pricing: new(MockPricingService), mailer: new(MockMailer)}
	f.runner = NewJobRunner(&Services{Pricing: f.pricing, Mailer: f.mailer}, files, cfg)
	f.runner.now = func() time.Time { return time.Date(2025, 10, 9, 1, 0, 0, 0, time.UTC) }
	return f
}

func TestExportCurrentPricing(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes both schemas", func(t *testing.T) {
		f := newFixture(t)
		f.pricing.On("Export", ctx, pricing.ProductPricing, tabular.FormatCSV).
			Return(&service.ExportFile{FileName: "product_pricing_2025-10-09.csv", Content: []byte("p")}, nil)
		f.pricing.On("Export", ctx, pricing.SupplierPricing, tabular.FormatCSV).
			Return(&service.ExportFile{FileName: "supplier_pricing_2025-10-09.csv", Content: []byte("s")}, nil)

		written, err := f.runner.exportCurrentPricing(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"exports/product_pricing_2025-10-09.csv", "exports/supplier_pricing_2025-10-09.csv"}, written)

		data, err := f.files.ReadFile(ctx, written[1])
		require.NoError(t, err)
		assert.Equal(t, "s", string(data))
	})

	t.Run("One schema failing does not stop the other", func(t *testing.T) {
		f := newFixture(t)
		f.pricing.On("Export", ctx, pricing.ProductPricing, tabular.FormatCSV).Return(nil, errors.New("db down"))
		f.pricing.On("Export", ctx, pricing.SupplierPricing, tabular.FormatCSV).
			Return(&service.ExportFile{FileName: "supplier_pricing_2025-10-09.csv", Content: []byte("s")}, nil)

		written, err := f.runner.exportCurrentPricing(ctx)
		assert.ErrorContains(t, err, "product export")
		assert.Len(t, written, 1)
	})
}

func TestImportInbox(t *testing.T) {
	ctx := context.Background()

	t.Run("Imports, archives and mails", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.files.SaveFile(ctx, "inbox/prices.csv", strings.NewReader("product csv")))
		require.NoError(t, f.files.SaveFile(ctx, "inbox/supplier_acme.csv", strings.NewReader("supplier csv")))
		require.NoError(t, f.files.SaveFile(ctx, "inbox/notes.txt", strings.NewReader("ignored")))

		productReport := &domain.ImportReport{BatchID: "b1", Schema: "product", Result: domain.BulkApplyResult{SuccessCount: 2}}
		supplierReport := &domain.ImportReport{BatchID: "b2", Schema: "supplier", FileRejected: true}
		f.pricing.On("Import", ctx, service.ImportRequest{
			Content: []byte("product csv"), Format: tabular.FormatCSV, Schema: pricing.ProductPricing, FileName: "prices.csv",
		}).Return(productReport, nil)
		f.pricing.On("Import", ctx, service.ImportRequest{
			Content: []byte("supplier csv"), Format: tabular.FormatCSV, Schema: pricing.SupplierPricing, FileName: "supplier_acme.csv",
		}).Return(supplierReport, nil)
		f.mailer.On("SendImportReport", ctx, "ops@hireshop.test", *productReport).Return(nil)
		f.mailer.On("SendImportReport", ctx, "ops@hireshop.test", *supplierReport).Return(errors.New("mail down"))

		processed, err := f.runner.importInbox(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, processed)

		archived, err := f.files.List(ctx, "archive/2025-10-09")
		require.NoError(t, err)
		require.Len(t, archived, 2)
		assert.Equal(t, "archive/2025-10-09/b1_prices.csv", archived[0].Key)
		assert.Equal(t, "archive/2025-10-09/b2_supplier_acme.csv", archived[1].Key)

		left, err := f.files.List(ctx, "inbox")
		require.NoError(t, err)
		require.Len(t, left, 1)
		assert.Equal(t, "inbox/notes.txt", left[0].Key)
		f.mailer.AssertExpectations(t)
	})

	t.Run("Service failure leaves the file for the next run", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.files.SaveFile(ctx, "inbox/prices.csv", strings.NewReader("x")))
		f.pricing.On("Import", ctx, mock.Anything).Return(nil, errors.New("db down"))

		processed, err := f.runner.importInbox(ctx)
		assert.Error(t, err)
		assert.Zero(t, processed)

		exists, _, err := f.files.FileExists(ctx, "inbox/prices.csv")
		require.NoError(t, err)
		assert.True(t, exists)
		f.mailer.AssertNumberOfCalls(t, "SendImportReport", 0)
	})

	t.Run("Empty inbox", func(t *testing.T) {
		f := newFixture(t)
		processed, err := f.runner.importInbox(ctx)
		require.NoError(t, err)
		assert.Zero(t, processed)
	})
}

func TestRunWithRecovery(t *testing.T) {
	f := newFixture(t)
	assert.NotPanics(t, func() {
		f.runner.runWithRecovery("boom", func() error { panic("boom") })
	})
}
