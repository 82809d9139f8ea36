package embedding

import (
	"context"
	"fmt"

	"github.com/jonathan/shortlister/internal/llm"
)

// GeminiProvider embeds text with the Gemini embedding model of an llm.Client
type GeminiProvider struct {
	client    llm.Client
	dimension int
}

// NewGeminiProvider creates a provider; a non-positive dimension means DefaultDimension
func NewGeminiProvider(client llm.Client, dimension int) *GeminiProvider {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &GeminiProvider{client: client, dimension: dimension}
}

// Dimension returns the vector size
func (p *GeminiProvider) Dimension() int {
	return p.dimension
}

// Embed returns the embedding of text
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if isBlank(text) {
		return make([]float32, p.dimension), nil
	}

	vec, err := p.client.EmbedText(ctx, text)
	if err != nil {
		return nil, &UpstreamError{
			Provider:  ProviderGemini,
			Retryable: llm.IsTransient(err),
			Message:   "embedding request failed",
			Cause:     err,
		}
	}
	if len(vec) != p.dimension {
		return nil, &UpstreamError{
			Provider: ProviderGemini,
			Message:  fmt.Sprintf("expected %d dimensions, got %d", p.dimension, len(vec)),
		}
	}
	return vec, nil
}
