package pricing

import (
	"context"
	"fmt"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/logger"
)

// Applier applies one validated price update and returns the record that is now
// current for the subject.
type Applier interface {
	ApplyPriceUpdate(ctx context.Context, cmd domain.PriceUpdateCommand) (*domain.PricingRecord, error)
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(ctx context.Context, cmd domain.PriceUpdateCommand) (*domain.PricingRecord, error)

func (f ApplierFunc) ApplyPriceUpdate(ctx context.Context, cmd domain.PriceUpdateCommand) (*domain.PricingRecord, error) {
	return f(ctx, cmd)
}

// Outcome is the tagged result of applying one command.
type Outcome struct {
	Command domain.PriceUpdateCommand
	Record  *domain.PricingRecord
	Err     error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

// Synchronizer applies commands one at a time, waiting for each before issuing the
// next, and keeps going past failures.
type Synchronizer struct {
	applier Applier
}

func NewSynchronizer(applier Applier) *Synchronizer {
	return &Synchronizer{applier: applier}
}

// Apply runs every command in order. If ctx is cancelled it stops issuing calls and
// marks the result Cancelled; updates already applied stay applied.
func (s *Synchronizer) Apply(ctx context.Context, cmds []domain.PriceUpdateCommand) (domain.BulkApplyResult, []Outcome) {
	var result domain.BulkApplyResult
	outcomes := make([]Outcome, 0, len(cmds))

	for _, cmd := range cmds {
		if ctx.Err() != nil {
			result.Cancelled = true
			logger.Warn("Bulk apply cancelled", "applied", result.SuccessCount, "failed", result.FailedCount,
				"remaining", len(cmds)-result.Attempted())
			break
		}

		record, err := s.applier.ApplyPriceUpdate(ctx, cmd)
		outcomes = append(outcomes, Outcome{Command: cmd, Record: record, Err: err})
		if err != nil {
			result.FailedCount++
			result.ApplyErrors = append(result.ApplyErrors, fmt.Sprintf("Row %d, %s: %v", cmd.Row, cmd.Subject, err))
			logger.Warn("Price update rejected", "row", cmd.Row, "subject", cmd.Subject.String(), "error", err)
			continue
		}
		result.SuccessCount++
	}
	return result, outcomes
}
