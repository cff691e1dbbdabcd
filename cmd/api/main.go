package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aquaforesee/water-scenario-service/internal/adapter/gemini"
	"github.com/aquaforesee/water-scenario-service/internal/adapter/httpapi"
	kafkaadapter "github.com/aquaforesee/water-scenario-service/internal/adapter/kafka"
	"github.com/aquaforesee/water-scenario-service/internal/adapter/postgres"
	"github.com/aquaforesee/water-scenario-service/internal/config"
	"github.com/aquaforesee/water-scenario-service/internal/domain"
	"github.com/aquaforesee/water-scenario-service/internal/engine"
	"github.com/aquaforesee/water-scenario-service/internal/insights"
	"github.com/aquaforesee/water-scenario-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	logger.Info("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Advisory channel (feature-flagged via GEMINI_ENABLED / GEMINI_API_KEY).
	var advisor domain.Advisor
	if cfg.GeminiEnabled {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout, metrics, logger)
		if err != nil {
			logger.Error("gemini client init failed", "error", err)
			os.Exit(1)
		}
		advisor = client
		metrics.AdvisoryEnabled.Set(1)
		logger.Info("gemini advisory enabled", "model", cfg.GeminiModel, "timeout", cfg.GeminiTimeout)
	} else {
		logger.Info("gemini advisory disabled")
	}

	// Storage (feature-flagged via DATABASE_ENABLED / DATABASE_URL). Without it
	// the API serves the built-in catalog and synthetic history.
	var store *postgres.Store
	if cfg.DatabaseEnabled {
		store, err = postgres.Open(ctx, cfg.DatabaseURL, clock, metrics, logger)
		if err != nil {
			logger.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		if err := store.InitSchema(ctx); err != nil {
			logger.Error("schema init failed", "error", err)
			os.Exit(1)
		}
		logger.Info("postgres storage enabled")
	} else {
		logger.Info("postgres storage disabled, serving the built-in catalog")
	}

	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, clock, metrics, logger)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	seed := cfg.EngineSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eng := engine.New(advisor, engine.NewCache(), rand.New(rand.NewSource(seed)), logger, metrics)

	opts := httpapi.Options{
		Engine:      eng,
		Insights:    insights.NewProvider(advisor, logger),
		AdvisorOn:   cfg.GeminiEnabled,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
		Metrics:     metrics,
	}
	// Assign the optional adapters only when present so a disabled feature
	// stays a nil interface inside the server.
	if store != nil {
		opts.Store = store
	}
	if publisher != nil {
		opts.Publisher = publisher
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, opts)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("postgres close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
