package jobs

import (
	"time"

	"hireshop-backend/internal/config"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/service"
	"hireshop-backend/internal/storage"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	files    storage.FileStore
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Pricing service.PricingService
	Mailer  service.ReportMailer
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, files storage.FileStore, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		files:    files,
		config:   cfg,
		now:      time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	start := jr.now()
	logger.Info("Starting job", "job", jobName)
	if err := jobFunc(); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return
	}
	logger.Info("Job completed", "job", jobName, "duration", jr.now().Sub(start).String())
}

// RunAll runs every job once (for manual execution). Imports go first so the
// export reflects them.
func (jr *JobRunner) RunAll() {
	jr.ImportInbox()
	jr.ExportCurrentPricing()
}
