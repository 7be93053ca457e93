package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestReadinessHandler(t *testing.T) {
	sc := newTestServerContext(t, nil)
	h := NewHealthChecker(sc)

	code, body := serve(t, h.ReadinessHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, healthStatusOK, body["status"])

	h.SetReady(false)
	code, body = serve(t, h.ReadinessHandler())
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, healthStatusNotReady, body["checks"].(map[string]any)["ready"])

	h.SetReady(true)
	require.NoError(t, sc.Shutdown(context.Background()))
	code, body = serve(t, h.ReadinessHandler())
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, healthStatusShuttingDown, body["checks"].(map[string]any)["shutdown"])
}

func TestDetailedHealthHandler_ReportsCredential(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, validCredential()))

	code, body := serve(t, h.DetailedHealthHandler())
	assert.Equal(t, http.StatusOK, code)
	google := body["google"].(map[string]any)
	assert.Equal(t, true, google["authenticated"])
	assert.Equal(t, true, google["has_refresh_token"])
	assert.Equal(t, false, google["expired"])
	assert.NotContains(t, google, "access_token")
}

func TestDetailedHealthHandler_NoCredential(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t, nil))

	code, body := serve(t, h.DetailedHealthHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["google"].(map[string]any)["authenticated"])
}

func TestLivenessHandler(t *testing.T) {
	code, body := serve(t, NewHealthChecker(nil).LivenessHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, healthStatusOK, body["status"])
}
