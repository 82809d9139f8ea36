package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/shortlister/internal/assessment"
	"github.com/jonathan/shortlister/internal/cache"
	"github.com/jonathan/shortlister/internal/config"
	"github.com/jonathan/shortlister/internal/db"
	"github.com/jonathan/shortlister/internal/embedding"
	"github.com/jonathan/shortlister/internal/llm"
	"github.com/jonathan/shortlister/internal/logger"
	"github.com/jonathan/shortlister/internal/shortlist"
	"github.com/jonathan/shortlister/internal/workerpool"
	"go.uber.org/zap"
)

// app holds the long-lived dependencies shared by the commands
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *db.DB
	llm      llm.Client
	cache    *cache.Redis
	pool     *workerpool.Pool
	pipeline *shortlist.Pipeline
}

// newApp loads configuration and connects every dependency.
// The caller must call close.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}
	if err := a.connect(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) connect(ctx context.Context) error {
	cfg := a.cfg

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	a.db = database

	// Without a Gemini key the classifier falls back to local rules
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(ctx, llmConfigFor(cfg), cfg.GeminiAPIKey)
		if err != nil {
			return err
		}
		a.llm = client
	} else {
		a.log.Warn("GEMINI_API_KEY not set, project levels without stored data default to beginner")
	}

	ttl, err := cfg.CacheTTL()
	if err != nil {
		return err
	}
	a.cache = cache.NewRedis(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, a.log)

	embedder, err := embedding.NewProvider(embedding.Config{
		Provider:         cfg.EmbeddingProvider,
		Model:            cfg.EmbeddingModel,
		Dimension:        cfg.EmbeddingDimension,
		LLM:              a.llm,
		HuggingFaceToken: cfg.HuggingFaceToken,
		Cache:            a.cache,
		CacheTTL:         ttl,
		Logger:           a.log,
	})
	if err != nil {
		return fmt.Errorf("failed to build embedding provider: %w", err)
	}

	var classifier assessment.Classifier
	if a.llm != nil {
		classifier = assessment.NewLLMClassifier(a.llm)
		a.log.Info("project level classifier enabled", zap.String(logger.FieldModel, a.llm.GetModel(llm.TierLite)))
	}

	a.pool = workerpool.New(cfg.WorkerPoolSize)
	a.pipeline = shortlist.New(
		database,
		assessment.NewResolver(classifier, a.log),
		embedder,
		a.pool,
		a.log,
	)

	a.log.Info("shortlister ready",
		zap.String(logger.FieldProvider, cfg.EmbeddingProvider),
		zap.Int("workers", a.pool.Size()),
		zap.Bool("embedding_cache", a.cache.Available()),
	)
	return nil
}

// llmConfigFor applies the configured classifier and Gemini embedding models
func llmConfigFor(cfg *config.Config) *llm.Config {
	llmConfig := llm.DefaultConfig()
	if cfg.ClassifierModel != "" {
		llmConfig = llmConfig.WithModel(llm.TierLite, cfg.ClassifierModel)
	}
	if cfg.EmbeddingModel != "" && strings.EqualFold(cfg.EmbeddingProvider, embedding.ProviderGemini) {
		llmConfig = llmConfig.WithEmbeddingModel(cfg.EmbeddingModel)
	}
	return llmConfig
}

// close releases dependencies in reverse order of creation
func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("failed to close cache", zap.Error(err))
		}
	}
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			a.log.Warn("failed to close LLM client", zap.Error(err))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	_ = a.log.Sync()
}
