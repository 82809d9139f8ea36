// Package config provides configuration loading and validation for the shortlister.
//
// Values come from three layers: environment variables (optionally seeded from a
// .env file by the CLI), an optional JSON or YAML file, and built-in defaults.
// Environment values win over the file, and the file wins over defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/shortlister/internal/embedding"
	"github.com/jonathan/shortlister/internal/schemas"
	"github.com/jonathan/shortlister/internal/types"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultPort              = 8080
	DefaultWorkerPoolSize    = 8
	DefaultEmbeddingCacheTTL = 24 * time.Hour
)

// Config represents the shortlister configuration.
// All fields are optional in the file; missing values use environment or defaults.
type Config struct {
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`

	// LLM and embeddings
	GeminiAPIKey       string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`
	ClassifierModel    string `json:"classifier_model,omitempty" yaml:"classifier_model,omitempty"` // Gemini model for project levels
	HuggingFaceToken   string `json:"hugging_face_api,omitempty" yaml:"hugging_face_api,omitempty"`
	EmbeddingProvider  string `json:"embedding_provider,omitempty" yaml:"embedding_provider,omitempty"`   // gemini or huggingface
	EmbeddingModel     string `json:"embedding_model,omitempty" yaml:"embedding_model,omitempty"`         // provider default when empty
	EmbeddingDimension int    `json:"embedding_dimension,omitempty" yaml:"embedding_dimension,omitempty"` // 768 when zero

	// Embedding cache, disabled when RedisAddr is empty
	RedisAddr         string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword     string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	EmbeddingCacheTTL string `json:"embedding_cache_ttl,omitempty" yaml:"embedding_cache_ttl,omitempty"` // Go duration or seconds

	// Runtime
	WorkerPoolSize int  `json:"worker_pool_size,omitempty" yaml:"worker_pool_size,omitempty"`
	Port           int  `json:"port,omitempty" yaml:"port,omitempty"`
	LogJSON        bool `json:"log_json,omitempty" yaml:"log_json,omitempty"`
	LogDebug       bool `json:"log_debug,omitempty" yaml:"log_debug,omitempty"`

	// Weights replaces the built-in default weights when set
	Weights *types.SignalWeights `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// YAML is converted to JSON so both formats share one schema
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert config YAML: %w", err)
		}
	}

	if err := schemas.Validate(schemas.Config, data); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return nil, fmt.Errorf("config error: %s", validationErr.Summary())
		}
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: environment over the optional file over defaults.
func Load(path string) (*Config, error) {
	env, err := FromEnv()
	if err != nil {
		return nil, err
	}

	file := &Config{}
	if path != "" {
		if file, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	merged := env.MergeWithDefaults(*file)
	merged = merged.MergeWithDefaults(Defaults())
	// Callers compare provider names directly
	merged.EmbeddingProvider = strings.ToLower(strings.TrimSpace(merged.EmbeddingProvider))
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Defaults returns the built-in configuration
func Defaults() Config {
	weights := types.DefaultWeights()
	return Config{
		EmbeddingProvider: embedding.ProviderGemini,
		EmbeddingCacheTTL: DefaultEmbeddingCacheTTL.String(),
		WorkerPoolSize:    DefaultWorkerPoolSize,
		Port:              DefaultPort,
		Weights:           &weights,
	}
}

// Validate checks that the configuration has valid values.
// Credentials are checked where they are used, not here.
func (c *Config) Validate() error {
	switch strings.ToLower(c.EmbeddingProvider) {
	case "", embedding.ProviderGemini, embedding.ProviderHuggingFace:
	default:
		return fmt.Errorf("config error: unknown embedding_provider %q", c.EmbeddingProvider)
	}

	if c.EmbeddingDimension < 0 {
		return fmt.Errorf("config error: 'embedding_dimension' must be non-negative")
	}
	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("config error: 'worker_pool_size' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	if _, err := c.CacheTTL(); err != nil {
		return err
	}

	if c.Weights != nil {
		if err := c.Weights.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	return nil
}

// CacheTTL parses EmbeddingCacheTTL, accepting a Go duration ("12h") or whole seconds ("600").
// An empty value yields DefaultEmbeddingCacheTTL.
func (c *Config) CacheTTL() (time.Duration, error) {
	raw := strings.TrimSpace(c.EmbeddingCacheTTL)
	if raw == "" {
		return DefaultEmbeddingCacheTTL, nil
	}
	ttl, err := parseDuration(raw)
	if err != nil || ttl <= 0 {
		return 0, fmt.Errorf("config error: invalid 'embedding_cache_ttl' %q", c.EmbeddingCacheTTL)
	}
	return ttl, nil
}

// DefaultWeights returns the configured weights, or the built-in ones
func (c *Config) DefaultWeights() types.SignalWeights {
	if c.Weights != nil {
		return *c.Weights
	}
	return types.DefaultWeights()
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.ClassifierModel == "" {
		result.ClassifierModel = defaults.ClassifierModel
	}
	if result.HuggingFaceToken == "" {
		result.HuggingFaceToken = defaults.HuggingFaceToken
	}
	if result.EmbeddingProvider == "" {
		result.EmbeddingProvider = defaults.EmbeddingProvider
	}
	if result.EmbeddingModel == "" {
		result.EmbeddingModel = defaults.EmbeddingModel
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.RedisPassword == "" {
		result.RedisPassword = defaults.RedisPassword
	}
	if result.EmbeddingCacheTTL == "" {
		result.EmbeddingCacheTTL = defaults.EmbeddingCacheTTL
	}

	// Int fields: use default if zero
	if result.EmbeddingDimension == 0 {
		result.EmbeddingDimension = defaults.EmbeddingDimension
	}
	if result.WorkerPoolSize == 0 {
		result.WorkerPoolSize = defaults.WorkerPoolSize
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: either layer can switch them on
	result.LogJSON = result.LogJSON || defaults.LogJSON
	result.LogDebug = result.LogDebug || defaults.LogDebug

	if result.Weights == nil && defaults.Weights != nil {
		w := *defaults.Weights
		result.Weights = &w
	}

	return result
}
