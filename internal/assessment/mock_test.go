package assessment

import (
	"context"

	"github.com/jonathan/shortlister/internal/llm"
	"github.com/jonathan/shortlister/internal/types"
)

// MockClassifier is a Classifier with a pluggable implementation
type MockClassifier struct {
	ClassifyFunc func(ctx context.Context, projectText string) (types.ProjectLevel, error)
	Calls        int
}

func (m *MockClassifier) ClassifyProjectLevel(ctx context.Context, projectText string) (types.ProjectLevel, error) {
	m.Calls++
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, projectText)
	}
	return types.ProjectLevelIntermediate, nil
}

// MockLLMClient is an llm.Client with pluggable generation
type MockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	LastPrompt       string
	LastTier         llm.ModelTier
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.LastPrompt = prompt
	m.LastTier = tier
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return `{"project_level": "Intermediate"}`, nil
}

func (m *MockLLMClient) EmbedText(_ context.Context, _ string) ([]float32, error) {
	return nil, nil
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string {
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	return nil
}
