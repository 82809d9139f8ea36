package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/shortlister/internal/logger"
)

// Hugging Face inference defaults
const (
	DefaultHuggingFaceModel = "sentence-transformers/all-mpnet-base-v2"
	DefaultHuggingFaceURL   = "https://router.huggingface.co/hf-inference/models"
	DefaultTimeout          = 30 * time.Second
)

// HuggingFaceOptions configures the feature-extraction endpoint
type HuggingFaceOptions struct {
	Token     string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	Dimension int
	// HTTPClient overrides the client built from Timeout
	HTTPClient *http.Client
}

// HuggingFaceProvider calls the Hugging Face feature-extraction pipeline
type HuggingFaceProvider struct {
	endpoint  string
	model     string
	token     string
	dimension int
	http      *http.Client
}

type featureExtractionRequest struct {
	Inputs  string         `json:"inputs"`
	Options map[string]any `json:"options,omitempty"`
}

// NewHuggingFaceProvider validates opts and creates the provider
func NewHuggingFaceProvider(opts HuggingFaceOptions) (*HuggingFaceProvider, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, fmt.Errorf("hugging face API token is required")
	}
	if opts.Model == "" {
		opts.Model = DefaultHuggingFaceModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultHuggingFaceURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Dimension <= 0 {
		opts.Dimension = DefaultDimension
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &HuggingFaceProvider{
		endpoint:  strings.TrimRight(opts.BaseURL, "/") + "/" + opts.Model + "/pipeline/feature-extraction",
		model:     opts.Model,
		token:     opts.Token,
		dimension: opts.Dimension,
		http:      client,
	}, nil
}

// Model returns the model identifier
func (p *HuggingFaceProvider) Model() string {
	return p.model
}

// Dimension returns the vector size
func (p *HuggingFaceProvider) Dimension() int {
	return p.dimension
}

// Embed returns the sentence embedding of text
func (p *HuggingFaceProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if isBlank(text) {
		return make([]float32, p.dimension), nil
	}

	body, err := json.Marshal(featureExtractionRequest{
		Inputs:  text,
		Options: map[string]any{"wait_for_model": true},
	})
	if err != nil {
		return nil, &UpstreamError{Provider: ProviderHuggingFace, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &UpstreamError{Provider: ProviderHuggingFace, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{
			Provider:  ProviderHuggingFace,
			Retryable: ctx.Err() == nil,
			Message:   "HTTP request failed",
			Cause:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Provider: ProviderHuggingFace, Retryable: true, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{
			Provider:  ProviderHuggingFace,
			Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			Message:   fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, logger.TruncateForLog(string(respBody), 200)),
		}
	}

	vec, err := decodeFeatures(respBody)
	if err != nil {
		return nil, &UpstreamError{Provider: ProviderHuggingFace, Message: "malformed response", Cause: err}
	}
	if len(vec) != p.dimension {
		return nil, &UpstreamError{
			Provider: ProviderHuggingFace,
			Message:  fmt.Sprintf("expected %d dimensions, got %d", p.dimension, len(vec)),
		}
	}
	return vec, nil
}

// decodeFeatures accepts a pooled vector or per-token vectors, mean-pooling the latter
func decodeFeatures(body []byte) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(body, &flat); err == nil {
		return flat, nil
	}

	var tokens [][]float32
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty feature matrix")
	}

	pooled := make([]float32, len(tokens[0]))
	for _, row := range tokens {
		if len(row) != len(pooled) {
			return nil, fmt.Errorf("ragged feature matrix")
		}
		for i, v := range row {
			pooled[i] += v
		}
	}
	n := float32(len(tokens))
	for i := range pooled {
		pooled[i] /= n
	}
	return pooled, nil
}
