package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/config"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/db"
	dbRedis "github.com/Emberalive/laptop-chatbot-sub000/internal/db/redis"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain"
	logpkg "github.com/Emberalive/laptop-chatbot-sub000/internal/logger"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/metrics"
	catalogrepo "github.com/Emberalive/laptop-chatbot-sub000/internal/repository/catalog"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/repository/embcache"
	sessionrepo "github.com/Emberalive/laptop-chatbot-sub000/internal/repository/session"
	chiTransport "github.com/Emberalive/laptop-chatbot-sub000/internal/transport/chi"
	openaiEmb "github.com/Emberalive/laptop-chatbot-sub000/internal/transport/openai"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/dialogue"
	embeddinguc "github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/embedding"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/extract"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/filter"
	healthuc "github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/health"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/prototype"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/rank"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting laptopbot API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("embedding_provider", cfg.Embedding.Provider),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterEngineMetrics()

	ctx := context.Background()

	// Optional store backing the embedding cache
	var store db.Store
	if cfg.Database.Driver == config.DriverRedis {
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer redisStore.Close()

		if err := redisStore.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))
		store = redisStore
	}

	embedder := buildEmbedder(cfg, store, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Bool("cache", cfg.Embedding.Cache && store != nil),
	)

	catalog, err := catalogrepo.Load(cfg.Catalog.Path, logger)
	switch {
	case errors.Is(err, domain.ErrEmptyCatalog):
		logger.Warn("Catalog is empty, every turn will report no results", zap.String("path", cfg.Catalog.Path))
	case err != nil:
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	table, err := prototype.BuildWithRetry(ctx, embedder, prototype.Retry{
		Attempts:       cfg.Embedding.StartupAttempts,
		Backoff:        time.Duration(cfg.Embedding.StartupBackoffMs) * time.Millisecond,
		AttemptTimeout: time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to build use-case prototypes", zap.Error(err))
	}

	rc := cfg.Recommend
	extractor := extract.New(embedder, table, extract.Config{
		ConfidenceThreshold: rc.ConfidenceThreshold,
		SecondaryThreshold:  rc.SecondaryThreshold,
		OffTopicThreshold:   rc.OffTopicThreshold,
		BudgetBand:          rc.BudgetBand,
	}, logger)
	pipeline := filter.New(cfg.Catalog.FallbackSize, logger)
	ranker := rank.New(embedder, table, rc.WindowSize, logger)
	engine := dialogue.New(catalog, extractor, pipeline, ranker, dialogue.Config{
		Count:         rc.Count,
		OffTopicLimit: rc.OffTopicLimit,
		CheaperRatio:  rc.CheaperRatio,
		PricierRatio:  rc.PricierRatio,
	}, logger)

	sessions := sessionrepo.NewStore(sessionrepo.Config{
		TTL:             time.Duration(cfg.Session.TTLMin) * time.Minute,
		CleanupInterval: time.Duration(cfg.Session.CleanupIntervalMin) * time.Minute,
		Seed:            rc.Seed,
	}, logger)

	// Pass nil interface (not typed nil pointer!) when no store is configured.
	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}
	healthSvc := healthuc.New(pinger, newEmbeddingHealthChecker(embedder), catalog)

	server := chiTransport.NewServer(engine, sessions, healthSvc, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr), zap.Int("catalog_items", catalog.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: provider -> Cached -> Instrumented -> Instruction.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) domain.Embedder {
	ec := cfg.Embedding

	var embedder domain.Embedder
	switch ec.Provider {
	case config.ProviderOpenAI:
		// Base provider (with transport metrics built-in)
		embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     ec.APIKey,
			BaseURL:    ec.BaseURL,
			Model:      ec.Model,
			Dimensions: ec.Dimensions,
			Provider:   ec.Provider,
			Timeout:    time.Duration(ec.TimeoutSec) * time.Second,
			Logger:     logger,
		})
	default:
		embedder = embeddinguc.NewHashingEmbedder(ec.Dimensions)
	}

	if ec.Cache && store != nil {
		embedder = embcache.New(embedder, store, cfg.Storage.KeyPrefix, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, ec.Provider, ec.Model, logger).
		WithBatchSize(ec.BatchSize)

	// Instruction prefix (outermost, so the cache key includes the instruction)
	if ec.Instruction != "" {
		return domain.NewInstructionEmbedder(embedder, ec.Instruction)
	}

	return embedder
}
