package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Blawby/blawby-ai-chatbot-sub012/internal"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/billing"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/domain"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/handler"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/jobs"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/metrics"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/middleware"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/repository"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/service"
	"github.com/Blawby/blawby-ai-chatbot-sub012/internal/worker"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Tier catalog shared by the quota and entitlement services
	catalog := domain.DefaultCatalog()

	// Initialize services
	quotaService := service.NewQuotaService(repo, catalog, logger)
	entitlementService := service.NewEntitlementService(repo, catalog, logger)
	deliveryService := service.NewDeliveryService(repo, logger)
	orgService := service.NewOrganizationService(repo, logger)

	// Initialize Stripe billing (nil when not configured)
	var billingService billing.Service
	if cfg.StripeSecretKey != "" {
		billingService = billing.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret, billing.PriceConfig{
			PlusMonthlyPriceID:       cfg.StripePlusMonthlyPriceID,
			PlusYearlyPriceID:        cfg.StripePlusYearlyPriceID,
			BusinessMonthlyPriceID:   cfg.StripeBusinessMonthlyPriceID,
			BusinessYearlyPriceID:    cfg.StripeBusinessYearlyPriceID,
			EnterpriseMonthlyPriceID: cfg.StripeEnterpriseMonthlyPriceID,
			EnterpriseYearlyPriceID:  cfg.StripeEnterpriseYearlyPriceID,
		})
		logger.Info("Stripe billing configured")
	} else {
		logger.Warn("Stripe billing not configured, billing endpoints are stubs")
	}

	// ==========================================================================
	// Background worker
	// ==========================================================================

	var bgWorker *worker.Worker
	if cfg.WorkerEnabled {
		workerCfg := worker.DefaultConfig()
		workerCfg.Concurrency = cfg.WorkerConcurrency
		workerCfg.PollInterval = cfg.WorkerPollInterval
		workerCfg.JobTimeout = cfg.WorkerJobTimeout

		bgWorker, err = worker.New(db, repo, workerCfg, logger)
		if err != nil {
			return fmt.Errorf("worker initialization failed: %w", err)
		}

		bgWorker.Register(jobs.NewReconcilePeriodHandler(quotaService, logger))
		bgWorker.Start(ctx)
	} else {
		logger.Warn("Background worker disabled, reconcile jobs will not run")
	}

	// Initialize handlers
	entitlementHandler := handler.NewEntitlementHandler(entitlementService, logger)
	usageHandler := handler.NewUsageHandler(quotaService, repo, logger)
	feesHandler := handler.NewFeesHandler(domain.Guideline2025Contiguous, logger)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService, logger)
	orgHandler := handler.NewOrganizationHandler(orgService, logger)
	billingHandler := handler.NewBillingHandler(billingService, orgService, cfg.BaseURL, logger)
	webhookHandler := handler.NewWebhookHandler(billingService, orgService, repo, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics (basic auth when credentials are configured)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	// API routes
	entitlementHandler.RegisterRoutes(mux)
	usageHandler.RegisterRoutes(mux)
	feesHandler.RegisterRoutes(mux)
	deliveryHandler.RegisterRoutes(mux)
	orgHandler.RegisterRoutes(mux)
	billingHandler.RegisterRoutes(mux)

	// Stripe webhook (public, authenticated by signature)
	webhookHandler.RegisterRoutes(mux)

	// Middleware stack: request logging, metrics, rate limiting
	var root http.Handler = mux
	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, logger)
		root = middleware.NewRateLimitMiddleware(limiter, logger).Limit(root)
	}
	root = metrics.Middleware(root)
	root = middleware.NewRequestLoggingMiddleware(logger).Handler(root)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// Stop the worker after the HTTP server stops accepting requests
	if bgWorker != nil {
		bgWorker.Stop()
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
