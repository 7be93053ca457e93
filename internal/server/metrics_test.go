package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/workspace-mcp/internal/instrumentation"
)

func TestNewMetricsServer_Errors(t *testing.T) {
	ctx := context.Background()
	disabled, err := instrumentation.NewProvider(ctx, instrumentation.Config{ServiceName: "test-service"})
	require.NoError(t, err)

	stdout, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "test-service",
		Enabled:         true,
		MetricsExporter: "stdout",
		TracingExporter: "none",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = stdout.Shutdown(ctx) })

	tests := []struct {
		name     string
		provider *instrumentation.Provider
		wantErr  string
	}{
		{"nil provider", nil, "instrumentation provider is required"},
		{"disabled provider", disabled, "instrumentation provider is not enabled"},
		{"stdout exporter", stdout, "metrics exporter is not prometheus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMetricsServer(MetricsServerConfig{InstrumentationProvider: tt.provider})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewMetricsServer_DefaultAddr(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{InstrumentationProvider: createTestProvider(t)})
	require.NoError(t, err)
	assert.Equal(t, DefaultMetricsAddr, server.Addr())
}

func TestMetricsServer_Handler(t *testing.T) {
	provider := createTestProvider(t)
	ctx := context.Background()
	provider.Metrics().RecordToolInvocation(ctx, "docs_get_document", instrumentation.StatusSuccess, 50*time.Millisecond)
	provider.Metrics().RecordGoogleAPIOperation(ctx, instrumentation.ServiceDocs, instrumentation.OperationGet, instrumentation.StatusSuccess, 20*time.Millisecond)
	provider.Metrics().RecordOAuthTokenRefresh(ctx, instrumentation.StatusSuccess, instrumentation.TriggerSilent)

	health := NewHealthChecker(nil)
	server, err := NewMetricsServer(MetricsServerConfig{
		InstrumentationProvider: provider,
		Health:                  health,
	})
	require.NoError(t, err)
	srv := httptest.NewServer(server.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	for _, want := range []string{
		"mcp_tool_invocations_total",
		"google_api_operations_total",
		"oauth_token_refresh_total",
	} {
		assert.Contains(t, string(body), want)
	}

	for _, path := range []string{"/healthz", "/readyz", "/healthz/detailed"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	health.SetReady(false)
	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func createTestProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	ctx := context.Background()
	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = provider.Shutdown(ctx)
	})
	return provider
}
