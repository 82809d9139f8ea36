package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonathan/shortlister/internal/server/middleware"
	"github.com/jonathan/shortlister/internal/schemas"
	"github.com/jonathan/shortlister/internal/server/ratelimit"
	"github.com/jonathan/shortlister/internal/shortlist"
	"github.com/jonathan/shortlister/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, ranker Ranker, health HealthChecker) *Server {
	t.Helper()
	s := New(Config{
		Port:       0,
		RetryAfter: 15 * time.Second,
		RateLimit:  &ratelimit.Config{Enabled: false},
	}, ranker, health, nil)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &MockRanker{}, nil)

	w := doRequest(t, s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestHealth_DependencyDown(t *testing.T) {
	s := newTestServer(t, &MockRanker{}, &MockHealth{Err: errors.New("connection refused")})

	w := doRequest(t, s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestShortlist_DefaultWeights(t *testing.T) {
	ranker := &MockRanker{
		RankFunc: func(_ context.Context, _ string, _ types.SignalWeights) ([]types.RankedResult, error) {
			return []types.RankedResult{
				{CandidateID: "a1", Name: "Alice", FinalScore: 88.79, Breakdown: types.ScoreBreakdown{types.SignalVerifiedMastery: 100}},
				{CandidateID: "b2", Name: "Bob", FinalScore: 10.5, Breakdown: types.ScoreBreakdown{}},
			}, nil
		},
	}
	s := newTestServer(t, ranker, nil)

	w := doRequest(t, s, http.MethodGet, "/internships/job-1/shortlist")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	assert.Equal(t, "job-1", ranker.LastJobID)
	assert.Equal(t, types.DefaultWeights(), ranker.LastWeights)
	require.NoError(t, schemas.Validate(schemas.RankedResults, w.Body.Bytes()))

	var body []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, "a1", body[0]["applicant_id"])
	assert.Equal(t, "Alice", body[0]["name"])
	assert.InDelta(t, 88.79, body[0]["final_score"], 1e-9)
	assert.Contains(t, body[0], "breakdown")
}

func TestShortlist_EmptyResultIsArray(t *testing.T) {
	s := newTestServer(t, &MockRanker{}, nil)

	w := doRequest(t, s, http.MethodGet, "/internships/job-1/shortlist")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestShortlist_WeightOverrides(t *testing.T) {
	ranker := &MockRanker{}
	s := newTestServer(t, ranker, nil)

	w := doRequest(t, s, http.MethodGet,
		"/internships/job-1/shortlist?weight_verified_mastery=0.5&weight_experience_match=0.1")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 0.5, ranker.LastWeights.VerifiedMastery)
	assert.Equal(t, 0.1, ranker.LastWeights.ExperienceMatch)
	assert.Equal(t, types.DefaultWeights().OCRSkills, ranker.LastWeights.OCRSkills)
	assert.Equal(t, types.DefaultWeights().ProjectRelevance, ranker.LastWeights.ProjectRelevance)
}

func TestShortlist_NonNumericWeight(t *testing.T) {
	ranker := &MockRanker{}
	s := newTestServer(t, ranker, nil)

	w := doRequest(t, s, http.MethodGet, "/internships/job-1/shortlist?weight_ocr_skills=high")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "weight_ocr_skills")
	assert.Zero(t, ranker.Calls)
}

func TestShortlist_Limit(t *testing.T) {
	ranker := &MockRanker{
		RankFunc: func(_ context.Context, _ string, _ types.SignalWeights) ([]types.RankedResult, error) {
			return []types.RankedResult{{CandidateID: "a"}, {CandidateID: "b"}, {CandidateID: "c"}}, nil
		},
	}
	s := newTestServer(t, ranker, nil)

	w := doRequest(t, s, http.MethodGet, "/internships/job-1/shortlist?limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body, 2)

	w = doRequest(t, s, http.MethodGet, "/internships/job-1/shortlist?limit=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShortlist_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		retryAfter string
		message    string
	}{
		{
			name:    "invalid weights",
			err:     &shortlist.Error{Kind: shortlist.KindValidation, Message: "invalid weights: weights must sum to 1.0 (or very close), but received: 1.2"},
			status:  http.StatusBadRequest,
			message: "weights must sum to 1.0",
		},
		{
			name:    "unknown job",
			err:     &shortlist.Error{Kind: shortlist.KindNotFound, Message: "job not found: missing"},
			status:  http.StatusNotFound,
			message: "job not found",
		},
		{
			name:       "embedding service unavailable",
			err:        &shortlist.Error{Kind: shortlist.KindUpstreamUnavailable, Retryable: true, Message: "embedding service unavailable"},
			status:     http.StatusServiceUnavailable,
			retryAfter: "15",
			message:    "embedding service unavailable",
		},
		{
			name:    "internal failure",
			err:     &shortlist.Error{Kind: shortlist.KindInternal, Message: "failed to load applicants", Cause: errors.New("pq: secret")},
			status:  http.StatusInternalServerError,
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranker := &MockRanker{
				RankFunc: func(_ context.Context, _ string, _ types.SignalWeights) ([]types.RankedResult, error) {
					return nil, tt.err
				},
			}
			s := newTestServer(t, ranker, nil)

			w := doRequest(t, s, http.MethodGet, "/internships/job-1/shortlist")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.retryAfter, w.Header().Get("Retry-After"))
			assert.Contains(t, w.Body.String(), tt.message)
			assert.NotContains(t, w.Body.String(), "secret")
		})
	}
}

func TestShortlist_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &MockRanker{}, nil)

	w := doRequest(t, s, http.MethodPost, "/internships/job-1/shortlist")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &MockRanker{}, nil)

	w := doRequest(t, s, http.MethodOptions, "/internships/job-1/shortlist")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit_Rejects(t *testing.T) {
	s := New(Config{
		RateLimit: &ratelimit.Config{
			Enabled:         true,
			DefaultLimit:    1,
			DefaultWindow:   time.Minute,
			CleanupInterval: time.Minute,
			IdleTTL:         time.Minute,
		},
	}, &MockRanker{}, nil, nil)
	t.Cleanup(s.rateLimiter.Stop)

	first := doRequest(t, s, http.MethodGet, "/internships/job-1/shortlist")
	assert.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, s, http.MethodGet, "/internships/job-1/shortlist")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, "1", second.Header().Get("X-RateLimit-Limit"))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s := New(Config{Port: 0, RateLimit: &ratelimit.Config{Enabled: false}}, &MockRanker{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(200*time.Millisecond))
	assert.Equal(t, 2, retryAfterSeconds(1500*time.Millisecond))
	assert.Equal(t, 30, retryAfterSeconds(30*time.Second))
}
