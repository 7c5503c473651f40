package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"hireshop-backend/internal/jobs"
	"hireshop-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a scheduler with every job registered. A bad cron spec is an error.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// UTC with seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	if _, err := s.cron.AddFunc(cfg.ImportInbox, s.jobs.ImportInbox); err != nil {
		return fmt.Errorf("failed to register ImportInbox job: %w", err)
	}
	if _, err := s.cron.AddFunc(cfg.ExportPricing, s.jobs.ExportCurrentPricing); err != nil {
		return fmt.Errorf("failed to register ExportCurrentPricing job: %w", err)
	}

	logger.Info("All cron jobs registered successfully", "import_inbox", cfg.ImportInbox, "export_pricing", cfg.ExportPricing)
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
}

// Stop waits for running jobs and stops the scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
