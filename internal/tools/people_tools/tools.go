package people_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterPeopleTools registers all People-related tools with the MCP server
func RegisterPeopleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchTool := mcp.NewTool("people_search_contacts",
		mcp.WithDescription("Search contacts by name or email across personal contacts, other contacts and the organization directory"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Name or email fragment to search for"),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Maximum number of contacts to return (default: 10)"),
		),
	)
	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService("people_search_contacts",
		instrumentation.ServicePeople, instrumentation.OperationSearch, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchContacts(ctx, request, sc)
		}))

	listTool := mcp.NewTool("people_list_connections",
		mcp.WithDescription("List the user's saved contacts, sorted by last name"),
		mcp.WithNumber("pageSize",
			mcp.Description("Number of contacts per page (default: 100, max: 1000)"),
		),
		mcp.WithString("pageToken",
			mcp.Description("Token from a previous call to fetch the next page"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandlerWithService("people_list_connections",
		instrumentation.ServicePeople, instrumentation.OperationList, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListConnections(ctx, request, sc)
		}))

	meTool := mcp.NewTool("people_get_me",
		mcp.WithDescription("Get the authenticated user's own profile"),
	)
	s.AddTool(meTool, common.InstrumentedToolHandlerWithService("people_get_me",
		instrumentation.ServicePeople, instrumentation.OperationGet, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetMe(ctx, sc)
		}))

	return nil
}

func handleSearchContacts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || query == "" {
		return common.ErrorResult("query is required"), nil
	}

	client, err := sc.PeopleClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create People client", err), nil
	}
	contacts, err := client.SearchContacts(ctx, query, request.GetInt("pageSize", 10))
	if err != nil {
		return common.ErrorFromErr("failed to search contacts", err), nil
	}
	return common.JSONResult(map[string]any{
		"query":    query,
		"count":    len(contacts),
		"contacts": contacts,
	})
}

func handleListConnections(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, err := sc.PeopleClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create People client", err), nil
	}
	page, err := client.ListConnections(ctx, request.GetInt("pageSize", 100), request.GetString("pageToken", ""))
	if err != nil {
		return common.ErrorFromErr("failed to list connections", err), nil
	}
	return common.JSONResult(page)
}

func handleGetMe(ctx context.Context, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, err := sc.PeopleClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create People client", err), nil
	}
	me, err := client.GetMe(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to get profile", err), nil
	}
	return common.JSONResult(me)
}
