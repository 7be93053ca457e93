package slides_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/slides"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterSlidesTools registers all Google Slides-related tools with the MCP server
func RegisterSlidesTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getTool := mcp.NewTool("slides_get_presentation",
		mcp.WithDescription("Get the text of every slide of a presentation, including speaker notes"),
		mcp.WithString("presentationId",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
	)
	s.AddTool(getTool, common.InstrumentedToolHandlerWithService("slides_get_presentation",
		instrumentation.ServiceSlides, instrumentation.OperationGet, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetPresentation(ctx, request, sc)
		}))

	if sc.ReadOnly() {
		return nil
	}

	replaceTool := mcp.NewTool("slides_replace_all_text",
		mcp.WithDescription("Replace text on all slides for a list of find/replace pairs in one batch"),
		mcp.WithString("presentationId",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
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
	s.AddTool(replaceTool, common.InstrumentedToolHandlerWithService("slides_replace_all_text",
		instrumentation.ServiceSlides, instrumentation.OperationUpdate, true, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReplaceAllText(ctx, request, sc)
		}))

	createTool := mcp.NewTool("slides_create_presentation",
		mcp.WithDescription("Create a new, empty presentation"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new presentation"),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandlerWithService("slides_create_presentation",
		instrumentation.ServiceSlides, instrumentation.OperationCreate, true, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreatePresentation(ctx, request, sc)
		}))

	return nil
}

func handleGetPresentation(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	presentationID, err := request.RequireString("presentationId")
	if err != nil || presentationID == "" {
		return common.ErrorResult("presentationId is required"), nil
	}

	client, err := sc.SlidesClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Slides client", err), nil
	}
	p, err := client.GetPresentation(ctx, presentationID)
	if err != nil {
		return common.ErrorFromErr("failed to get presentation", err), nil
	}
	return common.JSONResult(p)
}

func parseReplacements(request mcp.CallToolRequest) ([]slides.TextReplacement, error) {
	items := common.ObjectList(request, "replacements")
	out := make([]slides.TextReplacement, 0, len(items))
	for i, item := range items {
		find, _ := item["find"].(string)
		if find == "" {
			return nil, fmt.Errorf("replacement %d has no find text", i)
		}
		replace, _ := item["replace"].(string)
		ignoreCase, _ := item["ignoreCase"].(bool)
		out = append(out, slides.TextReplacement{Find: find, Replace: replace, IgnoreCase: ignoreCase})
	}
	return out, nil
}

func handleReplaceAllText(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	presentationID, err := request.RequireString("presentationId")
	if err != nil || presentationID == "" {
		return common.ErrorResult("presentationId is required"), nil
	}
	replacements, err := parseReplacements(request)
	if err != nil {
		return common.ErrorResult("%v", err), nil
	}
	if len(replacements) == 0 {
		return common.TextResult("%s", slides.ErrNoReplacements.Error())
	}

	client, err := sc.SlidesClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Slides client", err), nil
	}
	result, err := client.ReplaceAllText(ctx, presentationID, replacements)
	if errors.Is(err, slides.ErrNoReplacements) {
		return common.TextResult("%s", err.Error())
	}
	if err != nil {
		return common.ErrorFromErr("failed to replace text", err), nil
	}
	return common.JSONResult(result)
}

func handleCreatePresentation(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil || title == "" {
		return common.ErrorResult("title is required"), nil
	}

	client, err := sc.SlidesClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Slides client", err), nil
	}
	created, err := client.CreatePresentation(ctx, title)
	if err != nil {
		return common.ErrorFromErr("failed to create presentation", err), nil
	}
	return common.JSONResult(created)
}
