package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "hireshop-backend/internal/api/grpc"
	httpapi "hireshop-backend/internal/api/http"
	"hireshop-backend/internal/config"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/repository/database"
	"hireshop-backend/internal/security"
	"hireshop-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatalf("JWT secret is required to serve the API")
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Hire Shop Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "driver", cfg.Database.Driver, "host", cfg.Database.Host, "database", cfg.Database.Database)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	store, db, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Services
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	bookingSvc := service.NewBookingService(store.AssetRepository, service.BookingOptions{
		LookaheadDays: cfg.Booking.LookaheadDays,
		CacheTTL:      cfg.CalendarCacheTTL(),
	})
	pricingSvc := service.NewPricingService(store.PricingRepository, service.PricingOptions{
		ErrorDisplayLimit: cfg.Pricing.ErrorDisplayLimit,
		ExportPrefix:      cfg.Pricing.ExportPrefix,
	})
	checkoutSvc := service.NewCheckoutService(bookingSvc)

	router := httpapi.NewRouter(httpapi.Handlers{
		Pricing:        pricingSvc,
		Checkout:       checkoutSvc,
		Booking:        bookingSvc,
		Tokens:         tokenManager,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	})
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up gRPC health server
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	healthServer := grpcapi.NewHealthServer(store, 0)
	go healthServer.Watch(ctx)
	go func() {
		if err := healthServer.Serve(lis); err != nil {
			logger.Error("gRPC health server error", "error", err)
		}
	}()

	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	healthServer.Stop()
	logger.Info("Server stopped. Goodbye!")
}
