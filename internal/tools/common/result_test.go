package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/workspace-mcp/internal/google"
)

func decodeError(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.True(t, r.IsError)
	var env map[string]string
	require.NoError(t, json.Unmarshal([]byte(ResultText(r)), &env))
	return env["error"]
}

func TestErrorResult(t *testing.T) {
	assert.Equal(t, `documentId is required`, decodeError(t, ErrorResult("documentId is required")))
	assert.Equal(t, `bad "quote" 42%`, decodeError(t, ErrorResult("bad %q %d%%", "quote", 42)))
}

func TestErrorFromErr(t *testing.T) {
	msg := decodeError(t, ErrorFromErr("failed to get document", errors.New("404")))
	assert.Equal(t, "failed to get document: 404", msg)

	msg = decodeError(t, ErrorFromErr("failed", &google.ConfigError{Description: "no refresh method"}))
	assert.Contains(t, msg, "google_get_auth_url")

	noToken := google.NewRefreshError(google.RefreshNoToken, 0, google.ErrNoRefreshToken)
	msg = decodeError(t, ErrorFromErr("failed", fmt.Errorf("wrapped: %w", noToken)))
	assert.Contains(t, msg, "authorize again")
}

func TestJSONResult(t *testing.T) {
	r, err := JSONResult(map[string]int{"count": 2})
	require.NoError(t, err)
	assert.False(t, r.IsError)
	assert.JSONEq(t, `{"count": 2}`, ResultText(r))

	r, err = JSONResult(make(chan int))
	require.NoError(t, err)
	assert.True(t, r.IsError)
}

func TestStringList(t *testing.T) {
	req := func(v any) mcp.CallToolRequest {
		var r mcp.CallToolRequest
		r.Params.Arguments = map[string]any{"to": v}
		return r
	}

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, StringList(req("a@example.com, b@example.com,"), "to"))
	assert.Equal(t, []string{"a@example.com"}, StringList(req([]any{"a@example.com", 3, " "}), "to"))
	assert.Empty(t, StringList(req(nil), "to"))
	assert.Empty(t, StringList(mcp.CallToolRequest{}, "to"))
}

func TestObjectList(t *testing.T) {
	var r mcp.CallToolRequest
	r.Params.Arguments = map[string]any{"items": []any{map[string]any{"find": "a"}, "skip"}}

	items := ObjectList(r, "items")
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0]["find"])
	assert.Nil(t, ObjectList(r, "missing"))
}
