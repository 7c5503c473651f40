package pricing

import (
	"fmt"
	"strings"
	"time"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/utils"
)

const DefaultErrorDisplayLimit = 10

// SummarizeErrors returns at most limit messages, followed by "+N more" when the list
// was cut. A limit <= 0 keeps everything.
func SummarizeErrors(errs []string, limit int) []string {
	if limit <= 0 || len(errs) <= limit {
		out := make([]string, len(errs))
		copy(out, errs)
		return out
	}
	out := make([]string, 0, limit+1)
	out = append(out, errs[:limit]...)
	return append(out, fmt.Sprintf("+%d more", len(errs)-limit))
}

// FormatReport renders an import report as plain text for mail and the CLI.
func FormatReport(report domain.ImportReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pricing import %s (%s schema)\n", report.BatchID, report.Schema)
	if report.FileName != "" {
		fmt.Fprintf(&b, "File: %s\n", report.FileName)
	}
	if report.FileRejected {
		fmt.Fprintf(&b, "File rejected: %s\n", report.Message)
	} else {
		fmt.Fprintf(&b, "Updated: %d, failed: %d\n", report.Result.SuccessCount, report.Result.FailedCount)
	}
	if report.Result.Cancelled {
		b.WriteString("Import was interrupted before all rows were applied.\n")
	}
	if report.TotalErrors > 0 {
		fmt.Fprintf(&b, "Errors (%d):\n", report.TotalErrors)
		for _, line := range report.Summary {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	return b.String()
}

// ExportFilename returns "{prefix}_{YYYY-MM-DD}.{ext}".
func ExportFilename(prefix string, day time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, utils.FormatDate(day), strings.TrimPrefix(ext, "."))
}
