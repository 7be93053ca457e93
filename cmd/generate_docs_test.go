package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"google_get_auth_url", "Google Account Tools"},
		{"gmail_send", "Gmail Tools"},
		{"docs_replace_text", "Google Docs Tools"},
		{"slides_get_presentation", "Google Slides Tools"},
		{"people_get_me", "Google Contacts Tools"},
		{"drive_search", "Google Drive Tools"},
		{"calendar_list_events", "Other"},
		{"nounderscore", "Other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getCategoryFromToolName(tt.name))
		})
	}
}

func TestGenerateToolMarkdown(t *testing.T) {
	tool := mcp.NewTool("docs_replace_text",
		mcp.WithDescription("Replace text in a document"),
		mcp.WithString("documentId", mcp.Required(), mcp.Description("The document ID")),
		mcp.WithBoolean("matchCase"),
	)

	md := generateToolMarkdown(tool, true)

	assert.Contains(t, md, "### docs_replace_text\n")
	assert.Contains(t, md, "_Write tool: requires `--read-only=false`._")
	assert.Contains(t, md, "- `documentId` (string, required): The document ID\n")
	assert.Contains(t, md, "- `matchCase` (boolean, optional): boolean parameter\n")
	assert.Less(t, strings.Index(md, "documentId"), strings.Index(md, "matchCase"))

	assert.NotContains(t, generateToolMarkdown(tool, false), "Write tool")
}

func TestBuildToolsMarkdown(t *testing.T) {
	md, err := buildToolsMarkdown(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(md, "# MCP Tools Reference\n"))
	assert.Contains(t, md, "- [Google Docs Tools](#google-docs-tools)")
	assert.Contains(t, md, "## Google Slides Tools")
	assert.Contains(t, md, "### gmail_send\n\n_Write tool")
	assert.Contains(t, md, "### gmail_search\n\n")
	assert.NotContains(t, md, "### gmail_search\n\n_Write tool")
	assert.NotContains(t, md, "## Other")
}

func TestGenerateDocsCmd_Output(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tools.md")

	cmd := newGenerateDocsCmd()
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--output", out})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "### docs_get_document")
	assert.Contains(t, stderr.String(), "Documentation written to: "+out)
}
