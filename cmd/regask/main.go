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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/regask/internal/config"
	"github.com/kailas-cloud/regask/internal/db"
	dbQdrant "github.com/kailas-cloud/regask/internal/db/qdrant"
	dbRedis "github.com/kailas-cloud/regask/internal/db/redis"
	"github.com/kailas-cloud/regask/internal/domain"
	logpkg "github.com/kailas-cloud/regask/internal/logger"
	"github.com/kailas-cloud/regask/internal/metrics"
	"github.com/kailas-cloud/regask/internal/repository/embcache"
	passagerepo "github.com/kailas-cloud/regask/internal/repository/passage"
	chiTransport "github.com/kailas-cloud/regask/internal/transport/chi"
	ollamaTransport "github.com/kailas-cloud/regask/internal/transport/ollama"
	openaiTransport "github.com/kailas-cloud/regask/internal/transport/openai"
	answeruc "github.com/kailas-cloud/regask/internal/usecase/answer"
	embeddinguc "github.com/kailas-cloud/regask/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/regask/internal/usecase/health"
	"github.com/kailas-cloud/regask/internal/usecase/rerank"
	"github.com/kailas-cloud/regask/internal/usecase/retrieval"
	"github.com/kailas-cloud/regask/internal/version"
)

func main() {
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

	logger.Info("Starting regask API server",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_driver", cfg.Index.Driver),
		zap.Strings("index_addrs", cfg.Index.Addrs),
		zap.String("rewriter_driver", cfg.Rewriter.Driver),
	)

	store, kv, err := openStore(cfg.Index)
	if err != nil {
		logger.Fatal("Failed to create index store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Index.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Index not ready", zap.Error(err))
	}
	logger.Info("Connected to index")

	// Registered explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()

	provider := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	embedder := buildEmbedder(provider, cfg.Embedding, kv, logger)

	var queryEmbedder domain.Embedder = embedder
	if cfg.Embedding.QueryInstruction != "" {
		queryEmbedder = domain.NewInstructionEmbedder(embedder, cfg.Embedding.QueryInstruction)
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", kv != nil && cfg.Embedding.Cache.Enabled),
	)

	rewriter, err := buildRewriter(cfg.Rewriter, logger)
	if err != nil {
		logger.Fatal("Failed to create rewriter", zap.Error(err))
	}

	repo := passagerepo.New(store, passagerepo.Config{
		IndexName:      cfg.Index.Name,
		VectorField:    cfg.Index.VectorField,
		ContentField:   cfg.Index.ContentField,
		MetadataFields: cfg.Index.MetadataFields,
		KeyPrefix:      cfg.Index.KeyPrefix,
	})

	retrievalSvc := retrieval.New(repo, queryEmbedder)
	reranker := rerank.New(embedder, metrics.RerankSkippedPassagesTotal)
	answerSvc := answeruc.New(retrievalSvc, reranker, rewriter, answeruc.Config{
		CandidateK: cfg.Pipeline.CandidateK,
		TopK:       cfg.Pipeline.TopK,
	})
	healthSvc := healthuc.New(store, cfg.Index.Name, provider, rewriter)

	server := chiTransport.NewServer(answerSvc, healthSvc)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID", "X-Embedding-Tokens"},
		MaxAge:         300,
	}))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
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

// openStore connects the configured index backend. kv is nil unless the
// backend can also serve as the embedding cache.
func openStore(cfg config.IndexConfig) (db.Store, db.KVStore, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		return s, s, nil
	case config.DriverQdrant:
		s, err := dbQdrant.NewStore(dbQdrant.Config{
			Addr:   cfg.Addrs[0],
			APIKey: cfg.APIKey,
			UseTLS: cfg.UseTLS,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("qdrant: %w", err)
		}
		return s, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown index driver %q", cfg.Driver)
	}
}

// buildEmbedder assembles the decorator chain: provider -> Cached -> Instrumented.
// The query instruction is applied on top by the caller, for retrieval only.
func buildEmbedder(
	provider domain.Embedder,
	cfg config.EmbeddingConfig,
	kv db.KVStore,
	logger *zap.Logger,
) domain.Embedder {
	embedder := provider
	if kv != nil && cfg.Cache.Enabled {
		embedder = embcache.New(provider, kv, embcache.Options{
			Model: cfg.Model,
			TTL:   time.Duration(cfg.Cache.TTLSec) * time.Second,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	return embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, logger)
}

type rewriter interface {
	answeruc.Rewriter
	healthuc.ProviderChecker
}

func buildRewriter(cfg config.RewriterConfig, logger *zap.Logger) (rewriter, error) {
	switch cfg.Driver {
	case config.RewriterOpenAI:
		return openaiTransport.NewRewriter(&openaiTransport.RewriterConfig{
			Config: openaiTransport.Config{
				APIKey:  cfg.APIKey,
				BaseURL: cfg.BaseURL,
				Model:   cfg.Model,
				Logger:  logger,
			},
			Temperature: float32(cfg.Temperature),
			MaxTokens:   cfg.MaxTokens,
		}), nil
	case config.RewriterOllama:
		rw, err := ollamaTransport.NewRewriter(ollamaTransport.Config{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		return rw, nil
	default:
		return nil, fmt.Errorf("unknown rewriter driver %q", cfg.Driver)
	}
}
