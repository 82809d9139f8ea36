package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jonathan/shortlister/internal/cache"
	"github.com/jonathan/shortlister/internal/logger"
	"go.uber.org/zap"
)

// CachedProvider memoizes another provider's vectors in Redis.
// Cache failures are logged and otherwise ignored.
type CachedProvider struct {
	next   Provider
	cache  *cache.Redis
	model  string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProvider wraps next; model namespaces the keys so switching models never reuses vectors
func NewCachedProvider(next Provider, c *cache.Redis, model string, ttl time.Duration, log *zap.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &CachedProvider{
		next:   next,
		cache:  c,
		model:  model,
		ttl:    ttl,
		logger: logger.OrNop(log),
	}
}

// Dimension returns the wrapped provider's dimension
func (p *CachedProvider) Dimension() int {
	return p.next.Dimension()
}

// Embed returns the cached vector for text or computes and stores it
func (p *CachedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if isBlank(text) {
		return make([]float32, p.Dimension()), nil
	}

	key := CacheKey(p.model, text)

	var cached []float32
	found, err := p.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		p.logger.Debug("embedding cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found && len(cached) == p.Dimension() {
		return cached, nil
	}

	vec, err := p.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := p.cache.SetJSON(ctx, key, vec, p.ttl); err != nil {
		p.logger.Debug("embedding cache write failed", zap.String("key", key), zap.Error(err))
	}
	return vec, nil
}

// CacheKey is the Redis key of text embedded by model
func CacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embed:" + model + ":" + hex.EncodeToString(sum[:])
}
