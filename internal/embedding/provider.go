// Package embedding turns text into fixed-dimension vectors for semantic similarity.
package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/shortlister/internal/cache"
	"github.com/jonathan/shortlister/internal/llm"
	"go.uber.org/zap"
)

// Provider names accepted by NewProvider
const (
	ProviderGemini      = "gemini"
	ProviderHuggingFace = "huggingface"
)

// DefaultDimension is the vector size of both default models
const DefaultDimension = 768

// Provider produces embedding vectors of a fixed dimension.
// Blank text yields the zero vector without contacting the backend.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// UpstreamError is a failure of the embedding backend
type UpstreamError struct {
	Provider  string
	Retryable bool
	Message   string
	Cause     error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s embedding error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s embedding error: %s", e.Provider, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// Config selects and configures a Provider
type Config struct {
	// Provider is "gemini" (default) or "huggingface"
	Provider string
	// Model overrides the provider's default model. For Gemini the LLM client
	// must be configured with the same model; here it only keys the cache.
	Model string
	// Dimension overrides DefaultDimension
	Dimension int

	// LLM serves Gemini embeddings
	LLM llm.Client

	// HuggingFaceToken and HuggingFaceURL configure the inference endpoint
	HuggingFaceToken string
	HuggingFaceURL   string
	Timeout          time.Duration

	// Cache, when available, wraps the provider in a CachedProvider
	Cache    *cache.Redis
	CacheTTL time.Duration

	Logger *zap.Logger
}

// NewProvider builds the configured provider, decorated with the cache when one is available
func NewProvider(cfg Config) (Provider, error) {
	var (
		p     Provider
		model string
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		if cfg.LLM == nil {
			return nil, fmt.Errorf("gemini embedding provider requires an LLM client")
		}
		model = cfg.Model
		if model == "" {
			model = llm.DefaultEmbeddingModel
		}
		p = NewGeminiProvider(cfg.LLM, cfg.Dimension)
	case ProviderHuggingFace:
		hf, err := NewHuggingFaceProvider(HuggingFaceOptions{
			Token:     cfg.HuggingFaceToken,
			Model:     cfg.Model,
			BaseURL:   cfg.HuggingFaceURL,
			Timeout:   cfg.Timeout,
			Dimension: cfg.Dimension,
		})
		if err != nil {
			return nil, err
		}
		p, model = hf, hf.Model()
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Provider)
	}

	if cfg.Cache.Available() {
		return NewCachedProvider(p, cfg.Cache, model, cfg.CacheTTL, cfg.Logger), nil
	}
	return p, nil
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
