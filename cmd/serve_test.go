package cmd

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolNames(t *testing.T, readOnly bool) []string {
	t.Helper()
	tools, err := registeredTools(context.Background(), readOnly)
	require.NoError(t, err)
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	return names
}

func TestRegisterAllTools_ReadOnly(t *testing.T) {
	names := toolNames(t, true)

	assert.Len(t, names, 16)
	assert.Contains(t, names, "google_get_auth_url")
	assert.Contains(t, names, "docs_get_document")
	assert.Contains(t, names, "drive_download_file")
	for _, write := range []string{"docs_replace_text", "docs_insert_markdown", "slides_replace_all_text", "gmail_send"} {
		assert.NotContains(t, names, write)
	}
}

func TestRegisterAllTools_WriteMode(t *testing.T) {
	names := toolNames(t, false)

	assert.Len(t, names, 24)
	for _, write := range []string{
		"docs_append_markdown",
		"docs_create_document",
		"docs_insert_markdown",
		"docs_replace_all_text",
		"docs_replace_text",
		"gmail_send",
		"slides_create_presentation",
		"slides_replace_all_text",
	} {
		assert.Contains(t, names, write)
	}
}
