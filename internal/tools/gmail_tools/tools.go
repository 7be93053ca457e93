package gmail_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterGmailTools registers all Gmail-related tools with the MCP server
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchTool := mcp.NewTool("gmail_search",
		mcp.WithDescription("Search Gmail messages, newest first"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Gmail search query (e.g., 'in:inbox', 'from:user@example.com has:attachment')"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of messages to return (default: 10)"),
		),
	)
	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService("gmail_search",
		instrumentation.ServiceGmail, instrumentation.OperationSearch, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearch(ctx, request, sc)
		}))

	getMessageTool := mcp.NewTool("gmail_get_message",
		mcp.WithDescription("Get a Gmail message: headers, text body and attachment list"),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message"),
		),
	)
	s.AddTool(getMessageTool, common.InstrumentedToolHandlerWithService("gmail_get_message",
		instrumentation.ServiceGmail, instrumentation.OperationGet, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetMessage(ctx, request, sc)
		}))

	if err := registerAttachmentTools(s, sc); err != nil {
		return err
	}

	if sc.ReadOnly() {
		return nil
	}
	return registerSendTools(s, sc)
}

func handleSearch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || query == "" {
		return common.ErrorResult("query is required"), nil
	}
	maxResults := request.GetInt("maxResults", 10)

	client, err := sc.GmailClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Gmail client", err), nil
	}
	messages, err := client.Search(ctx, query, maxResults)
	if err != nil {
		return common.ErrorFromErr("failed to search messages", err), nil
	}
	return common.JSONResult(map[string]any{
		"query":    query,
		"count":    len(messages),
		"messages": messages,
	})
}

func handleGetMessage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	messageID, err := request.RequireString("messageId")
	if err != nil || messageID == "" {
		return common.ErrorResult("messageId is required"), nil
	}

	client, err := sc.GmailClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Gmail client", err), nil
	}
	msg, err := client.GetMessage(ctx, messageID)
	if err != nil {
		return common.ErrorFromErr("failed to get message", err), nil
	}
	return common.JSONResult(msg)
}
