package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hireshop-backend/internal/config"
	"hireshop-backend/internal/jobs"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/notify"
	"hireshop-backend/internal/repository/database"
	"hireshop-backend/internal/scheduler"
	"hireshop-backend/internal/service"
	"hireshop-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'import-inbox', 'export-pricing', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Hire Shop Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	store, db, err := database.Open(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	files, err := storage.NewLocalStorage(".")
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	// Initialize Services
	var mailer service.ReportMailer = notify.LogMailer{}
	if cfg.SendGrid.APIKey != "" {
		mailer = notify.NewSendGridMailer(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		logger.Info("No SendGrid API key configured; import reports go to the log")
	}

	jobServices := &jobs.Services{
		Pricing: service.NewPricingService(store.PricingRepository, service.PricingOptions{
			ErrorDisplayLimit: cfg.Pricing.ErrorDisplayLimit,
			ExportPrefix:      cfg.Pricing.ExportPrefix,
		}),
		Mailer: mailer,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, files, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "import-inbox":
		jobRunner.ImportInbox()
	case "export-pricing":
		jobRunner.ExportCurrentPricing()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - import-inbox\n")
		fmt.Printf("  - export-pricing\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
