// Package instrumentation provides OpenTelemetry metrics, tracing and the
// tool audit log for workspace-mcp.
//
// # Metrics
//
// Google API:
//   - google_api_operations_total: Google API calls by service, operation and status
//   - google_api_operation_duration_seconds: Google API call durations
//
// OAuth:
//   - oauth_auth_total: consent code exchanges by result
//   - oauth_token_refresh_total: token refresh attempts by result and trigger
//
// MCP tools:
//   - mcp_tool_invocations_total: tool invocations by tool and status
//   - mcp_tool_duration_seconds: tool execution durations
//
// HTTP transport:
//   - http_requests_total, http_request_duration_seconds
//
// # Tracing
//
// Spans are created for tool invocations (tool.<name>), Google API calls
// (google.<service>.<operation>) and token refreshes (oauth.refresh).
//
// # Configuration
//
//   - METRICS_ENABLED: enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP collector endpoint
//   - OTEL_TRACES_SAMPLER_ARG: sampling rate (default: 0.1)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_WRITES_ONLY
//
// Stdout exporters write to stderr so they never interleave with the stdio
// transport.
package instrumentation
