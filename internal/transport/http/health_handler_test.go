package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapaugustino/global-internet-usage/internal/services"
)

type stubHealthService struct {
	ready bool
}

func (s *stubHealthService) Health(ctx context.Context) *services.HealthStatus {
	return &services.HealthStatus{
		Status:        "healthy",
		DatasetLoaded: s.ready,
		Timestamp:     time.Now(),
	}
}

func (s *stubHealthService) Ready(ctx context.Context) bool { return s.ready }

func (s *stubHealthService) Version() *services.VersionInfo {
	return &services.VersionInfo{Version: "1.0.0-test"}
}

func newHealthHandler(ready bool) *HealthHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHealthHandler(&stubHealthService{ready: ready}, logger)
}

func TestGetHealth(t *testing.T) {
	h := newHealthHandler(true)

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestGetReadyBeforeLoad(t *testing.T) {
	h := newHealthHandler(false)

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetVersion(t *testing.T) {
	h := newHealthHandler(true)

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1.0.0-test", body["version"])
}
