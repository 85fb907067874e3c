package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"RentReport/internal/api"
	"RentReport/internal/config"
	"RentReport/internal/db"
	"RentReport/internal/email"
	"RentReport/internal/metrics"
	"RentReport/internal/report"
	"RentReport/internal/scheduler"
	"RentReport/internal/worker"
)

func main() {

	// ------------------------------------------------
	// Logger
	// ------------------------------------------------
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// ------------------------------------------------
	// Config
	// ------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ------------------------------------------------
	// Root Context + Shutdown
	// ------------------------------------------------
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	// ------------------------------------------------
	// Document Store
	// ------------------------------------------------
	mongoStore := &db.Mongo{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
		Collections: db.Collections{
			Leases:    cfg.LeasesCollection,
			Payments:  cfg.PaymentsCollection,
			Inventory: cfg.InventoryCollection,
			EmailLogs: cfg.EmailLogsCollection,
		},
	}
	if err := mongoStore.Initialize(ctx); err != nil {
		logger.Fatal("document store connection failed", zap.Error(err))
	}
	defer func() {
		if err := mongoStore.Close(context.Background()); err != nil {
			logger.Error("document store disconnect failed", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Audit Log
	// ------------------------------------------------
	var audit worker.Recorder = mongoStore

	if cfg.DatabaseURL != "" {
		store, err := db.New(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal("email_logs schema setup failed", zap.Error(err))
		}

		audit = store
		logger.Info("email audit log stored in postgres")
	}

	// ------------------------------------------------
	// Metrics
	// ------------------------------------------------
	metrics.Init()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("metrics server started", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("metrics server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Email Sender
	// ------------------------------------------------
	sender := &email.Sender{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	}

	// ------------------------------------------------
	// Rate Limiter
	// ------------------------------------------------
	limiter := worker.NewLimiter(cfg.RateLimit)

	// ------------------------------------------------
	// Report Runner
	// ------------------------------------------------
	runner := &report.Runner{
		Source:  mongoStore,
		Audit:   audit,
		Mailer:  sender,
		Limiter: limiter,
		Log:     logger,
		Workers: cfg.WorkerCount,
		Retries: cfg.RetryAttempts,
	}

	// ------------------------------------------------
	// Scheduler
	// ------------------------------------------------
	sched, err := scheduler.New(ctx, cfg.ReportSchedule, func(ctx context.Context) {
		runner.Run(ctx)
	}, logger)
	if err != nil {
		logger.Fatal("scheduler setup failed", zap.Error(err))
	}
	sched.Start()

	// ------------------------------------------------
	// HTTP API Server
	// ------------------------------------------------
	apiServer := &http.Server{
		Addr: ":" + cfg.APIPort,
		Handler: api.NewRouter(&api.Handler{
			Runner: runner,
			Ctx:    ctx,
			Log:    logger,
		}),
	}

	go func() {
		logger.Info("api server started", zap.String("port", cfg.APIPort))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("api server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Wait for shutdown
	// ------------------------------------------------
	<-ctx.Done()

	logger.Info("shutting down services...")

	// Stop firing new runs
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", zap.Error(err))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", zap.Error(err))
	}

	logger.Info("application shutdown complete")
}
