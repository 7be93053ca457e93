package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func captureJSON(t *testing.T) (*slog.Logger, func() map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() map[string]interface{} {
		var rec map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("failed to decode log record %q: %v", buf.String(), err)
		}
		return rec
	}
}

func TestWithTool(t *testing.T) {
	logger, record := captureJSON(t)
	WithTool(logger, "docs_replace_text").Info("done")

	if got := record()[KeyTool]; got != "docs_replace_text" {
		t.Errorf("tool = %v, want %q", got, "docs_replace_text")
	}
}

func TestWithService(t *testing.T) {
	logger, record := captureJSON(t)
	WithService(logger, "google_auth").Info("done")

	if got := record()[KeyService]; got != "google_auth" {
		t.Errorf("service = %v, want %q", got, "google_auth")
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		name    string
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		{"operation", Operation("update"), KeyOperation, "update"},
		{"service", Service("docs"), KeyService, "docs"},
		{"trigger", Trigger("proactive"), KeyTrigger, "proactive"},
		{"status", Status(StatusSuccess), KeyStatus, "success"},
		{"duration", Duration(1500 * time.Millisecond), KeyDuration, "1.5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantVal {
				t.Errorf("value = %q, want %q", tt.attr.Value.String(), tt.wantVal)
			}
		})
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("token refresh failed"))
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "token refresh failed" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "token refresh failed")
	}

	logger, record := captureJSON(t)
	logger.Info("no error", Err(nil))
	if _, ok := record()[KeyError]; ok {
		t.Error("Err(nil) should be omitted from the record")
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		token    string
		expected string
	}{
		{"", "<empty>"},
		{"abc123", "[token:6 chars]"},
		{"ya29.a0AfH6SMBx_long_access_token", "[token:33 chars]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := SanitizeToken(tt.token)
			if result != tt.expected {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, result, tt.expected)
			}
		})
	}
}

func TestStatusConstants(t *testing.T) {
	if StatusSuccess != "success" {
		t.Errorf("StatusSuccess = %q, want %q", StatusSuccess, "success")
	}
	if StatusError != "error" {
		t.Errorf("StatusError = %q, want %q", StatusError, "error")
	}
}
