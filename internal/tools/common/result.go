package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/workspace-mcp/internal/google"
)

// errorEnvelope is the text body of every failed tool result.
type errorEnvelope struct {
	Error string `json:"error"`
}

// ErrorResult returns a tool error whose text is {"error": message}.
func ErrorResult(format string, args ...any) *mcp.CallToolResult {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	data, err := json.Marshal(errorEnvelope{Error: msg})
	if err != nil {
		return mcp.NewToolResultError(msg)
	}
	return mcp.NewToolResultError(string(data))
}

// ErrorFromErr returns a tool error for err, prefixed with action. Auth
// errors get a hint on how to recover.
func ErrorFromErr(action string, err error) *mcp.CallToolResult {
	msg := fmt.Sprintf("%s: %v", action, err)
	switch {
	case google.IsConfigError(err):
		msg += ". Authorize with google_get_auth_url and google_save_auth_code"
	case errors.Is(err, google.ErrNoRefreshToken):
		msg += ". The stored credential cannot be refreshed; authorize again with google_get_auth_url"
	}
	return ErrorResult("%s", msg)
}

// JSONResult returns v encoded as indented JSON.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ErrorResult("failed to serialize result: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// TextResult returns a plain text message.
func TextResult(format string, args ...any) (*mcp.CallToolResult, error) {
	if len(args) > 0 {
		return mcp.NewToolResultText(fmt.Sprintf(format, args...)), nil
	}
	return mcp.NewToolResultText(format), nil
}

// ResultText returns the concatenated text content of r.
func ResultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	var text string
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			text += tc.Text
		}
	}
	return text
}
