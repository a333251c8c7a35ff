package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Tron16/SolarScheduler/internal/port"
)

// Config holds the configuration for the installation-time model endpoint.
type Config struct {
	URL     string // e.g. http://localhost:8000/api/predict/
	Token   string // Bearer token (empty = no auth)
	Timeout time.Duration
}

// HTTPPredictor implements port.Predictor against the model's REST API.
// The API accepts {"features": {<name>: <number>, ...}} and returns
// {"prediction": <number>}.
type HTTPPredictor struct {
	cfg        Config
	httpClient *http.Client
}

// NewHTTPPredictor creates a predictor client for the given endpoint.
func NewHTTPPredictor(cfg Config) *HTTPPredictor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &HTTPPredictor{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type predictRequest struct {
	Features map[string]float64 `json:"features"`
}

type predictResponse struct {
	Prediction float64 `json:"prediction"`
}

// Predict submits the encoded feature map and returns the predicted
// installation time in hours. Any non-2xx response is a failure.
func (p *HTTPPredictor) Predict(ctx context.Context, features map[string]float64) (float64, error) {
	payload, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.Token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", port.ErrPredictionUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("%w: status %d: %s", port.ErrPredictionUpstream, resp.StatusCode, string(body))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", port.ErrPredictionUpstream, err)
	}

	return out.Prediction, nil
}
