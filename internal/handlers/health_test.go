package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	w := httptest.NewRecorder()
	NewHealthHandler(map[string]Pinger{"database": ok, "cache": ok}, logger).Check(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	var resp HealthResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "up", resp.Checks["cache"])

	w = httptest.NewRecorder()
	NewHealthHandler(map[string]Pinger{"database": ok, "cache": down}, logger).Check(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	AssertJSONResponse(t, w, http.StatusServiceUnavailable, &resp)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "down", resp.Checks["cache"])
	assert.Equal(t, "up", resp.Checks["database"])
}
