package shortlist

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jonathan/shortlister/internal/types"
)

// MockStore is a Store with pluggable queries
type MockStore struct {
	GetJobFunc              func(ctx context.Context, jobID string) (*types.JobPosting, error)
	GetCandidatesForJobFunc func(ctx context.Context, jobID string) ([]types.CandidateRow, error)
	Calls                   atomic.Int32
}

func (m *MockStore) GetJob(ctx context.Context, jobID string) (*types.JobPosting, error) {
	m.Calls.Add(1)
	if m.GetJobFunc != nil {
		return m.GetJobFunc(ctx, jobID)
	}
	return nil, nil
}

func (m *MockStore) GetCandidatesForJob(ctx context.Context, jobID string) ([]types.CandidateRow, error) {
	m.Calls.Add(1)
	if m.GetCandidatesForJobFunc != nil {
		return m.GetCandidatesForJobFunc(ctx, jobID)
	}
	return nil, nil
}

// MockClassifier is an assessment.Classifier with a pluggable implementation
type MockClassifier struct {
	ClassifyFunc func(ctx context.Context, projectText string) (types.ProjectLevel, error)
	Calls        atomic.Int32
}

func (m *MockClassifier) ClassifyProjectLevel(ctx context.Context, projectText string) (types.ProjectLevel, error) {
	m.Calls.Add(1)
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, projectText)
	}
	return types.ProjectLevelIntermediate, nil
}

// MockEmbedder maps known texts to vectors and everything else to Default
type MockEmbedder struct {
	Vectors map[string][]float32
	Default []float32
	Dim     int
	// EmbedFunc, when set, replaces the lookup
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)

	mu    sync.Mutex
	texts []string
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	if vec, ok := m.Vectors[text]; ok {
		return vec, nil
	}
	if m.Default != nil {
		return m.Default, nil
	}
	return make([]float32, m.Dimension()), nil
}

func (m *MockEmbedder) Dimension() int {
	if m.Dim == 0 {
		return 2
	}
	return m.Dim
}

// Texts returns every embedded text
func (m *MockEmbedder) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}
