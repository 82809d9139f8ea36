package server

import (
	"context"
	"sync"

	"github.com/jonathan/shortlister/internal/types"
)

// MockRanker is a mock implementation of Ranker
type MockRanker struct {
	RankFunc func(ctx context.Context, jobID string, weights types.SignalWeights) ([]types.RankedResult, error)

	mu          sync.Mutex
	LastJobID   string
	LastWeights types.SignalWeights
	Calls       int
}

func (m *MockRanker) RankCandidates(ctx context.Context, jobID string, weights types.SignalWeights) ([]types.RankedResult, error) {
	m.mu.Lock()
	m.LastJobID = jobID
	m.LastWeights = weights
	m.Calls++
	m.mu.Unlock()

	if m.RankFunc != nil {
		return m.RankFunc(ctx, jobID, weights)
	}
	return []types.RankedResult{}, nil
}

// MockHealth is a mock implementation of HealthChecker
type MockHealth struct {
	Err error
}

func (m *MockHealth) Ping(_ context.Context) error {
	return m.Err
}
