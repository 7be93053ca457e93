package docs_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/docs"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterDocsTools registers all Google Docs-related tools with the MCP server
func RegisterDocsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getDocumentTool := mcp.NewTool("docs_get_document",
		mcp.WithDescription("Get Google Docs content by document ID. All tabs are included."),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'markdown' (default), 'text', or 'json'"),
			mcp.Enum("markdown", "text", "json"),
		),
	)
	s.AddTool(getDocumentTool, common.InstrumentedToolHandlerWithService("docs_get_document",
		instrumentation.ServiceDocs, instrumentation.OperationGet, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetDocument(ctx, request, sc)
		}))

	getMetadataTool := mcp.NewTool("docs_get_document_metadata",
		mcp.WithDescription("Get metadata about a Google Doc or Drive file"),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc or Drive file"),
		),
	)
	s.AddTool(getMetadataTool, common.InstrumentedToolHandlerWithService("docs_get_document_metadata",
		instrumentation.ServiceDrive, instrumentation.OperationGet, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetMetadata(ctx, request, sc)
		}))

	if sc.ReadOnly() {
		return nil
	}

	createTool := mcp.NewTool("docs_create_document",
		mcp.WithDescription("Create a new Google Doc, optionally with initial markdown content"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new document"),
		),
		mcp.WithString("markdown",
			mcp.Description("Initial content as markdown (headings, bold, italic, code, links)"),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandlerWithService("docs_create_document",
		instrumentation.ServiceDocs, instrumentation.OperationCreate, true, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateDocument(ctx, request, sc)
		}))

	insertTool := mcp.NewTool("docs_insert_markdown",
		mcp.WithDescription("Insert formatted markdown into a Google Doc at a document index"),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("Markdown to insert (headings, bold, italic, code, links)"),
		),
		mcp.WithNumber("index",
			mcp.Description("Document index to insert at (default: 1, the start of the body)"),
		),
		mcp.WithString("tabId",
			mcp.Description("Tab to insert into (default: the first tab)"),
		),
	)
	s.AddTool(insertTool, common.InstrumentedToolHandlerWithService("docs_insert_markdown",
		instrumentation.ServiceDocs, instrumentation.OperationUpdate, true, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleInsertMarkdown(ctx, request, sc)
		}))

	appendTool := mcp.NewTool("docs_append_markdown",
		mcp.WithDescription("Append formatted markdown to the end of a Google Doc"),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("Markdown to append"),
		),
		mcp.WithString("tabId",
			mcp.Description("Tab to append to (default: the first tab)"),
		),
	)
	s.AddTool(appendTool, common.InstrumentedToolHandlerWithService("docs_append_markdown",
		instrumentation.ServiceDocs, instrumentation.OperationUpdate, true, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAppendMarkdown(ctx, request, sc)
		}))

	replaceTool := mcp.NewTool("docs_replace_text",
		mcp.WithDescription("Replace every occurrence of a text with formatted markdown. Finding nothing is not an error."),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("find",
			mcp.Required(),
			mcp.Description("Exact text to find (case-sensitive)"),
		),
		mcp.WithString("replace",
			mcp.Description("Replacement markdown; empty deletes the matches"),
		),
		mcp.WithString("tabId",
			mcp.Description("Only replace in this tab (default: all tabs)"),
		),
	)
	s.AddTool(replaceTool, common.InstrumentedToolHandlerWithService("docs_replace_text",
		instrumentation.ServiceDocs, instrumentation.OperationUpdate, true, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReplaceText(ctx, request, sc)
		}))

	replaceAllTool := mcp.NewTool("docs_replace_all_text",
		mcp.WithDescription("Replace plain text in a Google Doc for a list of find/replace pairs in one batch"),
		mcp.WithString("documentId",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithArray("replacements",
			mcp.Required(),
			mcp.Description("List of {find, replace, ignoreCase} objects"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"find":       map[string]any{"type": "string"},
					"replace":    map[string]any{"type": "string"},
					"ignoreCase": map[string]any{"type": "boolean"},
				},
				"required": []string{"find"},
			}),
		),
	)
	s.AddTool(replaceAllTool, common.InstrumentedToolHandlerWithService("docs_replace_all_text",
		instrumentation.ServiceDocs, instrumentation.OperationUpdate, true, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReplaceAllText(ctx, request, sc)
		}))

	return nil
}

func handleGetDocument(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("documentId")
	if err != nil || documentID == "" {
		return common.ErrorResult("documentId is required"), nil
	}
	format := request.GetString("format", "markdown")

	client, err := sc.DocsClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Docs client", err), nil
	}

	switch format {
	case "markdown":
		content, err := client.GetDocumentAsMarkdown(ctx, documentID)
		if err != nil {
			return common.ErrorFromErr("failed to get document", err), nil
		}
		return common.TextResult("Document content (Markdown, %d bytes):\n%s", len(content), content)

	case "text":
		content, err := client.GetDocumentAsPlainText(ctx, documentID)
		if err != nil {
			return common.ErrorFromErr("failed to get document", err), nil
		}
		return common.TextResult("Document content (plain text, %d bytes):\n%s", len(content), content)

	case "json":
		doc, err := client.GetDocument(ctx, documentID)
		if err != nil {
			return common.ErrorFromErr("failed to get document", err), nil
		}
		jsonBytes, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return common.ErrorResult("failed to serialize document: %v", err), nil
		}
		return common.TextResult("Document content (JSON, %d bytes):\n%s", len(jsonBytes), string(jsonBytes))

	default:
		return common.ErrorResult("invalid format '%s', must be 'markdown', 'text', or 'json'", format), nil
	}
}

func handleGetMetadata(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("documentId")
	if err != nil || documentID == "" {
		return common.ErrorResult("documentId is required"), nil
	}

	client, err := sc.DocsClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Docs client", err), nil
	}
	metadata, err := client.GetFileMetadata(ctx, documentID)
	if err != nil {
		return common.ErrorFromErr("failed to get metadata", err), nil
	}
	return common.JSONResult(metadata)
}

func handleCreateDocument(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil || title == "" {
		return common.ErrorResult("title is required"), nil
	}

	client, err := sc.DocsClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Docs client", err), nil
	}
	created, err := client.CreateDocument(ctx, title, request.GetString("markdown", ""))
	if err != nil {
		if created != nil {
			return common.ErrorFromErr(fmt.Sprintf("document %s created but content could not be inserted", created.DocumentID), err), nil
		}
		return common.ErrorFromErr("failed to create document", err), nil
	}
	return common.JSONResult(created)
}

func handleInsertMarkdown(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("documentId")
	if err != nil || documentID == "" {
		return common.ErrorResult("documentId is required"), nil
	}
	markdown, err := request.RequireString("markdown")
	if err != nil || markdown == "" {
		return common.ErrorResult("markdown is required"), nil
	}
	index := request.GetInt("index", 1)

	client, err := sc.DocsClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Docs client", err), nil
	}
	result, err := client.InsertMarkdown(ctx, documentID, markdown, int64(index), request.GetString("tabId", ""))
	if err != nil {
		return common.ErrorFromErr("failed to insert markdown", err), nil
	}
	return common.JSONResult(result)
}

func handleAppendMarkdown(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("documentId")
	if err != nil || documentID == "" {
		return common.ErrorResult("documentId is required"), nil
	}
	markdown, err := request.RequireString("markdown")
	if err != nil || markdown == "" {
		return common.ErrorResult("markdown is required"), nil
	}

	client, err := sc.DocsClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Docs client", err), nil
	}
	result, err := client.AppendMarkdown(ctx, documentID, markdown, request.GetString("tabId", ""))
	if err != nil {
		return common.ErrorFromErr("failed to append markdown", err), nil
	}
	return common.JSONResult(result)
}

func handleReplaceText(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("documentId")
	if err != nil || documentID == "" {
		return common.ErrorResult("documentId is required"), nil
	}
	find, err := request.RequireString("find")
	if err != nil {
		return common.ErrorResult("find is required"), nil
	}

	client, err := sc.DocsClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Docs client", err), nil
	}
	result, err := client.ReplaceText(ctx, documentID, find, request.GetString("replace", ""), request.GetString("tabId", ""))
	if err != nil {
		return common.ErrorFromErr("failed to replace text", err), nil
	}
	return common.JSONResult(result)
}

// parseReplacements reads the replacements argument. Entries without a
// find string are rejected rather than skipped.
func parseReplacements(request mcp.CallToolRequest) ([]docs.TextReplacement, error) {
	items := common.ObjectList(request, "replacements")
	out := make([]docs.TextReplacement, 0, len(items))
	for i, item := range items {
		find, _ := item["find"].(string)
		if find == "" {
			return nil, fmt.Errorf("replacement %d has no find text", i)
		}
		replace, _ := item["replace"].(string)
		ignoreCase, _ := item["ignoreCase"].(bool)
		out = append(out, docs.TextReplacement{Find: find, Replace: replace, IgnoreCase: ignoreCase})
	}
	return out, nil
}

func handleReplaceAllText(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("documentId")
	if err != nil || documentID == "" {
		return common.ErrorResult("documentId is required"), nil
	}
	replacements, err := parseReplacements(request)
	if err != nil {
		return common.ErrorResult("%v", err), nil
	}
	if len(replacements) == 0 {
		return common.TextResult("%s", docs.ErrNoReplacements.Error())
	}

	client, err := sc.DocsClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Docs client", err), nil
	}
	result, err := client.ReplaceAllText(ctx, documentID, replacements)
	if errors.Is(err, docs.ErrNoReplacements) {
		return common.TextResult("%s", err.Error())
	}
	if err != nil {
		return common.ErrorFromErr("failed to replace text", err), nil
	}
	return common.JSONResult(result)
}
