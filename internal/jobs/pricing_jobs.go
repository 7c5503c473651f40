package jobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/pricing"
	"hireshop-backend/internal/service"
	"hireshop-backend/internal/tabular"
	"hireshop-backend/internal/utils"
)

// ExportCurrentPricing writes the current product and supplier pricing to the export directory as CSV.
func (jr *JobRunner) ExportCurrentPricing() {
	jr.runWithRecovery("ExportCurrentPricing", func() error {
		_, err := jr.exportCurrentPricing(context.Background())
		return err
	})
}

func (jr *JobRunner) exportCurrentPricing(ctx context.Context) ([]string, error) {
	var written []string
	var errs []error
	for _, schema := range []pricing.Schema{pricing.ProductPricing, pricing.SupplierPricing} {
		file, err := jr.services.Pricing.Export(ctx, schema, tabular.FormatCSV)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s export: %w", schema.Name, err))
			continue
		}
		key := path.Join(jr.config.Pricing.ExportDir, file.FileName)
		if err := jr.files.SaveFile(ctx, key, bytes.NewReader(file.Content)); err != nil {
			errs = append(errs, fmt.Errorf("%s export: %w", schema.Name, err))
			continue
		}
		logger.Info("Pricing exported", "schema", schema.Name, "file", key, "rows", file.Rows)
		written = append(written, key)
	}
	return written, errors.Join(errs...)
}

// ImportInbox imports every price file waiting in the inbox directory.
func (jr *JobRunner) ImportInbox() {
	jr.runWithRecovery("ImportInbox", func() error {
		_, err := jr.importInbox(context.Background())
		return err
	})
}

// importInbox returns how many files were processed. A file whose import failed for a reason
// outside the file itself stays in the inbox for the next run; rejected files are archived
// like any other.
func (jr *JobRunner) importInbox(ctx context.Context) (int, error) {
	cfg := jr.config.Pricing
	files, err := jr.files.List(ctx, cfg.InboxDir)
	if err != nil {
		return 0, err
	}

	processed := 0
	var errs []error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		name := path.Base(f.Key)
		format, err := tabular.FormatForFile(name)
		if err != nil {
			logger.Warn("Skipping inbox file", "file", f.Key, "error", err)
			continue
		}

		content, err := jr.files.ReadFile(ctx, f.Key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		report, err := jr.services.Pricing.Import(ctx, service.ImportRequest{
			Content:  content,
			Format:   format,
			Schema:   pricing.SchemaForFile(name),
			FileName: name,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("import %s: %w", name, err))
			continue
		}

		archived := path.Join(cfg.ArchiveDir, utils.FormatDate(jr.now()), report.BatchID+"_"+name)
		if err := jr.files.Move(ctx, f.Key, archived); err != nil {
			errs = append(errs, fmt.Errorf("archive %s: %w", name, err))
		}
		processed++

		logger.Info("Inbox file imported",
			"file", name,
			"batch_id", report.BatchID,
			"rejected", report.FileRejected,
			"updated", report.Result.SuccessCount,
			"errors", report.TotalErrors,
		)
		if cfg.ReportRecipient != "" && jr.services.Mailer != nil {
			if err := jr.services.Mailer.SendImportReport(ctx, cfg.ReportRecipient, *report); err != nil {
				logger.Error("Failed to mail import report", "batch_id", report.BatchID, "error", err)
			}
		}
	}
	return processed, errors.Join(errs...)
}
