package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Tron16/SolarScheduler/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPPredictor_Predict(t *testing.T) {
	var gotAuth string
	var gotBody predictRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]float64{"prediction": 19.25})
	}))
	defer server.Close()

	p := NewHTTPPredictor(Config{URL: server.URL, Token: "api-token"})

	hours, err := p.Predict(context.Background(), map[string]float64{
		"Panel QTY": 24,
		"Tilt":      30.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 19.25, hours)
	assert.Equal(t, "Bearer api-token", gotAuth)
	assert.Equal(t, 24.0, gotBody.Features["Panel QTY"])
	assert.Equal(t, 30.5, gotBody.Features["Tilt"])
}

func TestHTTPPredictor_NoTokenOmitsHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]float64{"prediction": 1})
	}))
	defer server.Close()

	p := NewHTTPPredictor(Config{URL: server.URL})
	_, err := p.Predict(context.Background(), map[string]float64{"Tilt": 1})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestHTTPPredictor_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "model unavailable", http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed response body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			p := NewHTTPPredictor(Config{URL: server.URL})
			_, err := p.Predict(context.Background(), map[string]float64{"Tilt": 1})
			assert.ErrorIs(t, err, port.ErrPredictionUpstream)
		})
	}
}

func TestHTTPPredictor_UnreachableEndpoint(t *testing.T) {
	p := NewHTTPPredictor(Config{URL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := p.Predict(context.Background(), map[string]float64{"Tilt": 1})
	assert.ErrorIs(t, err, port.ErrPredictionUpstream)
}
