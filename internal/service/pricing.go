package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/pricing"
	"hireshop-backend/internal/repository"
	"hireshop-backend/internal/tabular"
)

type PricingOptions struct {
	ErrorDisplayLimit int
	ExportPrefix      string
	Now               func() time.Time
}

type pricingService struct {
	repo repository.PricingRepository
	opts PricingOptions
}

func NewPricingService(repo repository.PricingRepository, opts PricingOptions) PricingService {
	if opts.ErrorDisplayLimit == 0 {
		opts.ErrorDisplayLimit = pricing.DefaultErrorDisplayLimit
	}
	if opts.ExportPrefix == "" {
		opts.ExportPrefix = "pricing"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &pricingService{repo: repo, opts: opts}
}

func (s *pricingService) Import(ctx context.Context, req ImportRequest) (*domain.ImportReport, error) {
	report := &domain.ImportReport{
		BatchID:  uuid.NewString(),
		Schema:   req.Schema.Name,
		FileName: req.FileName,
		Summary:  []string{},
	}
	log := logger.WithService("pricing").With("batch_id", report.BatchID, "schema", report.Schema)
	log.Info("Pricing import started", "file", req.FileName, "format", req.Format, "bytes", len(req.Content))

	doc, err := tabular.Decode(req.Content, req.Format)
	if err != nil {
		return s.rejectFile(report, err.Error()), nil
	}

	validation, err := pricing.NewValidator(req.Schema).WithClock(s.opts.Now).Validate(doc)
	if err != nil {
		if pricing.IsStructural(err) {
			return s.rejectFile(report, err.Error()), nil
		}
		return nil, err
	}

	report.Result.ValidationErrors = validation.Errors
	if validation.Rejected() {
		s.rejectFile(report, pricing.ErrNoValidRows.Error())
		return report, nil
	}

	result, _ := pricing.NewSynchronizer(s.repo).Apply(ctx, validation.Commands)
	result.ValidationErrors = validation.Errors
	report.Result = result
	s.summarize(report)

	log.Info("Pricing import finished",
		"updated", result.SuccessCount,
		"failed", result.FailedCount,
		"rejected_rows", len(validation.Errors),
		"skipped_rows", validation.Skipped,
		"cancelled", result.Cancelled)
	return report, nil
}

func (s *pricingService) rejectFile(report *domain.ImportReport, message string) *domain.ImportReport {
	report.FileRejected = true
	report.Message = message
	s.summarize(report)
	logger.Warn("Pricing file rejected", "batch_id", report.BatchID, "schema", report.Schema, "error", message)
	return report
}

func (s *pricingService) summarize(report *domain.ImportReport) {
	all := report.Result.Errors()
	report.TotalErrors = len(all)
	report.Summary = pricing.SummarizeErrors(all, s.opts.ErrorDisplayLimit)
}

func (s *pricingService) Export(ctx context.Context, schema pricing.Schema, format tabular.Format) (*ExportFile, error) {
	kind := domain.SubjectProduct
	if schema.Key == pricing.KeyBySupplierSKU {
		kind = domain.SubjectSupplier
	}

	records, err := s.repo.ListCurrent(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list current pricing: %w", err)
	}
	headers, rows := pricing.ExportRows(schema, records)

	var buf bytes.Buffer
	if err := tabular.Encode(&buf, format, headers, rows); err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	prefix := schema.Name + "_" + s.opts.ExportPrefix
	file := &ExportFile{
		FileName:    pricing.ExportFilename(prefix, s.opts.Now(), format.Ext()),
		ContentType: format.ContentType(),
		Content:     buf.Bytes(),
		Rows:        len(rows),
	}
	logger.Info("Pricing exported", "schema", schema.Name, "format", format, "rows", file.Rows, "file", file.FileName)
	return file, nil
}
