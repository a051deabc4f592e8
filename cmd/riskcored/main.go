package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/application/usecase"
	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
	"github.com/quantsingularity/FinovaBank/internal/infrastructure/config"
	"github.com/quantsingularity/FinovaBank/internal/infrastructure/memory"
	"github.com/quantsingularity/FinovaBank/internal/infrastructure/messaging"
	pgstore "github.com/quantsingularity/FinovaBank/internal/infrastructure/postgres"
	grpcpresentation "github.com/quantsingularity/FinovaBank/internal/presentation/grpc"
	"github.com/quantsingularity/FinovaBank/internal/presentation/rest"
	"github.com/quantsingularity/FinovaBank/pkg/auth"
	pkgkafka "github.com/quantsingularity/FinovaBank/pkg/kafka"
	"github.com/quantsingularity/FinovaBank/pkg/observability"
	pkgpostgres "github.com/quantsingularity/FinovaBank/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: "json",
	})
	slog.SetDefault(logger)

	logger.Info("starting riskcore",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"storage_backend", cfg.StorageBackend,
	)

	// Policy catalog: embedded defaults, optionally overridden by YAML.
	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load policy catalog", "error", err)
		os.Exit(1)
	}

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: "riskcore",
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer meterProvider.Shutdown(context.Background())

	// Audit storage backend.
	var auditStore port.AuditStore
	readinessChecks := map[string]func(context.Context) error{}

	switch cfg.StorageBackend {
	case "postgres":
		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		defer dbCancel()

		pool, err := pkgpostgres.NewPoolFromDSN(dbCtx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pkgpostgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("connected to database, migrations applied")

		auditStore = pgstore.NewAuditStore(pool)
		readinessChecks["database"] = func(ctx context.Context) error {
			return pkgpostgres.HealthCheck(ctx, pool)
		}
	case "memory":
		auditStore = memory.NewAuditStore()
	default:
		logger.Error("unknown storage backend", "backend", cfg.StorageBackend)
		os.Exit(1)
	}

	blocklist := memory.NewBlocklist()
	activityWindow := memory.NewActivityWindow()

	// Event publishing.
	var publisher port.EventPublisher
	if cfg.KafkaEnabled {
		producer := pkgkafka.NewProducer(pkgkafka.Config{
			Brokers: []string{cfg.KafkaBroker},
		})
		defer producer.Close()
		publisher = messaging.NewPublisher(producer, cfg.KafkaTopic, logger)
		logger.Info("kafka publisher enabled", "broker", cfg.KafkaBroker, "topic", cfg.KafkaTopic)
	} else {
		publisher = messaging.NewNoopPublisher(logger)
	}

	// Wire domain services.
	classifier, err := catalog.Classifier()
	if err != nil {
		logger.Error("invalid classifier catalog", "error", err)
		os.Exit(1)
	}
	ledger := service.NewLedger(auditStore, catalog.SanitizePolicy(), classifier, logger)

	extractor := service.NewFactorExtractor(logger)
	engine := service.NewScoreEngine(logger)
	creditScorer := service.NewCreditScorer(extractor, engine)
	loanScorer := service.NewLoanScorer(extractor, engine)
	defaultScorer := service.NewDefaultProbabilityScorer(extractor)
	fraudScorer := service.NewFraudScorer(extractor)
	healthScorer := service.NewHealthScorer(engine)
	segmenter := service.NewRFMSegmenter()
	portfolioAnalyzer := service.NewPortfolioAnalyzer(loanScorer, defaultScorer)

	securityPolicy := catalog.SecurityPolicy()
	loginAnalyzer, err := service.NewLoginAnalyzer(activityWindow, blocklist, securityPolicy, logger)
	if err != nil {
		logger.Error("invalid security policy", "error", err)
		os.Exit(1)
	}
	apiMonitor, err := service.NewAPIMonitor(activityWindow, securityPolicy, logger)
	if err != nil {
		logger.Error("invalid security policy", "error", err)
		os.Exit(1)
	}

	evaluator := service.NewRuleEvaluator()
	reporter := service.NewSecurityReporter(auditStore, blocklist)
	dashboard := service.NewDashboardBuilder(auditStore)
	aggregator := service.NewReportAggregator(auditStore, valueobject.SeverityHigh)

	// Wire use cases.
	scoreCreditUC := usecase.NewScoreCredit(creditScorer, ledger, publisher)
	assessLoanUC := usecase.NewAssessLoan(loanScorer, ledger, publisher)
	estimateDefaultUC := usecase.NewEstimateDefault(defaultScorer)
	assessPortfolioUC := usecase.NewAssessPortfolio(portfolioAnalyzer, ledger)
	analyzeFraudUC := usecase.NewAnalyzeFraud(fraudScorer, ledger, publisher)
	scoreHealthUC := usecase.NewScoreHealth(healthScorer)
	segmentCustomersUC := usecase.NewSegmentCustomers(segmenter)
	analyzeLoginUC := usecase.NewAnalyzeLogin(loginAnalyzer, ledger)
	monitorAPIUC := usecase.NewMonitorAPI(apiMonitor, ledger)
	checkComplianceUC := usecase.NewCheckCompliance(evaluator, catalog.ComplianceThresholds(), ledger, publisher)
	buildDashboardUC := usecase.NewBuildDashboard(dashboard)
	postureUC := usecase.NewSecurityPosture(reporter, blocklist, ledger)
	auditTrailUC := usecase.NewAuditTrail(ledger, aggregator, publisher)

	// JWT validation: RSA public key when configured, HMAC secret otherwise.
	jwtConfig := auth.JWTConfig{Issuer: "finova", Secret: cfg.JWTSecret}
	if cfg.JWTPublicKey != "" {
		pem, err := auth.LoadKeyFromFile(cfg.JWTPublicKey)
		if err != nil {
			logger.Error("failed to load JWT public key", "error", err)
			os.Exit(1)
		}
		jwtConfig.PublicKeyPEM = string(pem)
	}
	jwtService, err := auth.NewJWTService(jwtConfig)
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// gRPC server.
	riskHandler := grpcpresentation.NewRiskHandler(
		scoreCreditUC, assessLoanUC, estimateDefaultUC, assessPortfolioUC,
		analyzeFraudUC, scoreHealthUC, segmentCustomersUC, logger,
	)
	complianceHandler := grpcpresentation.NewComplianceHandler(
		checkComplianceUC, buildDashboardUC, analyzeLoginUC, monitorAPIUC,
		postureUC, auditTrailUC, logger,
	)
	grpcServer := grpcpresentation.NewServer(riskHandler, complianceHandler, cfg.GRPCAddress(), logger, jwtService)

	// HTTP server (health checks and metrics).
	healthHandler := rest.NewHealthHandler(logger, readinessChecks)
	httpMux := http.NewServeMux()
	healthHandler.RegisterRoutes(httpMux)
	httpMux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      httpMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("riskcore started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down riskcore")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("riskcore stopped")
}
