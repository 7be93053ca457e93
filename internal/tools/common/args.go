package common

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// StringList reads key as either a JSON array of strings or a comma
// separated string. Blank entries are dropped.
func StringList(request mcp.CallToolRequest, key string) []string {
	var raw []string
	switch v := request.GetArguments()[key].(type) {
	case string:
		raw = strings.Split(v, ",")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = v
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ObjectList reads key as a JSON array of objects.
func ObjectList(request mcp.CallToolRequest, key string) []map[string]any {
	items, ok := request.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
