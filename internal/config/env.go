package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names
const (
	EnvDatabaseURL        = "DATABASE_URL"
	EnvGeminiAPIKey       = "GEMINI_API_KEY"
	EnvClassifierModel    = "CLASSIFIER_MODEL"
	EnvHuggingFaceToken   = "HUGGING_FACE_API"
	EnvEmbeddingProvider  = "EMBEDDING_PROVIDER"
	EnvEmbeddingModel     = "EMBEDDING_MODEL"
	EnvEmbeddingDimension = "EMBEDDING_DIMENSION"
	EnvRedisAddr          = "REDIS_ADDR"
	EnvRedisPassword      = "REDIS_PASSWORD"
	EnvEmbeddingCacheTTL  = "EMBEDDING_CACHE_TTL"
	EnvWorkerPoolSize     = "WORKER_POOL_SIZE"
	EnvPort               = "PORT"
	EnvLogJSON            = "LOG_JSON"
	EnvLogDebug           = "LOG_DEBUG"
)

// FromEnv reads the configuration from environment variables.
// Unset variables leave their fields empty.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       env(EnvDatabaseURL),
		GeminiAPIKey:      env(EnvGeminiAPIKey),
		ClassifierModel:   env(EnvClassifierModel),
		HuggingFaceToken:  env(EnvHuggingFaceToken),
		EmbeddingProvider: strings.ToLower(env(EnvEmbeddingProvider)),
		EmbeddingModel:    env(EnvEmbeddingModel),
		RedisAddr:         env(EnvRedisAddr),
		RedisPassword:     env(EnvRedisPassword),
		EmbeddingCacheTTL: env(EnvEmbeddingCacheTTL),
	}

	var err error
	if cfg.EmbeddingDimension, err = envInt(EnvEmbeddingDimension); err != nil {
		return nil, err
	}
	if cfg.WorkerPoolSize, err = envInt(EnvWorkerPoolSize); err != nil {
		return nil, err
	}
	if cfg.Port, err = envInt(EnvPort); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = envBool(EnvLogJSON); err != nil {
		return nil, err
	}
	if cfg.LogDebug, err = envBool(EnvLogDebug); err != nil {
		return nil, err
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envInt(key string) (int, error) {
	raw := env(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return v, nil
}

func envBool(key string) (bool, error) {
	raw := env(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %v", key, err)
	}
	return v, nil
}

func parseDuration(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(raw)
}
