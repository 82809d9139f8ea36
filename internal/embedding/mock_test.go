package embedding

import (
	"context"
	"sync/atomic"

	"github.com/jonathan/shortlister/internal/llm"
)

// MockLLMClient is an llm.Client whose embeddings are pluggable
type MockLLMClient struct {
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)
	Calls         atomic.Int32
}

func (m *MockLLMClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "{}", nil
}

func (m *MockLLMClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.Calls.Add(1)
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return make([]float32, DefaultDimension), nil
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string {
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	return nil
}

// MockProvider is a Provider with a pluggable implementation
type MockProvider struct {
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)
	Dim       int
	Calls     atomic.Int32
}

func (m *MockProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	m.Calls.Add(1)
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return make([]float32, m.Dimension()), nil
}

func (m *MockProvider) Dimension() int {
	if m.Dim == 0 {
		return DefaultDimension
	}
	return m.Dim
}
