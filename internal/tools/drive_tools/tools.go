package drive_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/drive"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterDriveTools registers all Google Drive-related tools with the MCP server
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchTool := mcp.NewTool("drive_search",
		mcp.WithDescription("Search files in Google Drive, including shared drives. Filters are combined with AND."),
		mcp.WithString("name",
			mcp.Description("Match files whose name contains this text"),
		),
		mcp.WithString("fullText",
			mcp.Description("Match files whose name, description or content contains this text"),
		),
		mcp.WithString("mimeType",
			mcp.Description("Match an exact MIME type (e.g., 'application/pdf', 'application/vnd.google-apps.document')"),
		),
		mcp.WithString("folderId",
			mcp.Description("Only return direct children of this folder"),
		),
		mcp.WithString("query",
			mcp.Description("Raw Drive query for anything the other filters cannot express (e.g., \"modifiedTime > '2024-01-01T00:00:00'\")"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of files to return (default: 25, max: 1000)"),
		),
		mcp.WithString("orderBy",
			mcp.Description("Sort order (e.g., 'modifiedTime desc', 'name')"),
		),
		mcp.WithString("pageToken",
			mcp.Description("Token from a previous search to fetch the next page"),
		),
		mcp.WithBoolean("includeTrashed",
			mcp.Description("Include trashed files (default: false)"),
		),
	)
	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService("drive_search",
		instrumentation.ServiceDrive, instrumentation.OperationSearch, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearch(ctx, request, sc)
		}))

	getFileTool := mcp.NewTool("drive_get_file",
		mcp.WithDescription("Get metadata for a specific file in Google Drive"),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the file"),
		),
	)
	s.AddTool(getFileTool, common.InstrumentedToolHandlerWithService("drive_get_file",
		instrumentation.ServiceDrive, instrumentation.OperationGet, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetFile(ctx, request, sc)
		}))

	downloadTool := mcp.NewTool("drive_download_file",
		mcp.WithDescription("Download a file into the download directory and return its path. Google-native files are exported."),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the file"),
		),
		mcp.WithString("format",
			mcp.Description("Export format for Google-native files: pdf, docx, txt, md, html (Docs); xlsx, csv, pdf (Sheets); pptx, pdf, txt (Slides); png, svg, pdf (Drawings)"),
		),
	)
	s.AddTool(downloadTool, common.InstrumentedToolHandlerWithService("drive_download_file",
		instrumentation.ServiceDrive, instrumentation.OperationDownload, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDownloadFile(ctx, request, sc)
		}))

	return nil
}

func handleSearch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	opts := drive.SearchOptions{
		Name:           request.GetString("name", ""),
		FullText:       request.GetString("fullText", ""),
		MimeType:       request.GetString("mimeType", ""),
		FolderID:       request.GetString("folderId", ""),
		Query:          request.GetString("query", ""),
		MaxResults:     request.GetInt("maxResults", 0),
		OrderBy:        request.GetString("orderBy", ""),
		PageToken:      request.GetString("pageToken", ""),
		IncludeTrashed: request.GetBool("includeTrashed", false),
	}

	client, err := sc.DriveClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Drive client", err), nil
	}
	result, err := client.Search(ctx, opts)
	if err != nil {
		return common.ErrorFromErr("failed to search files", err), nil
	}
	return common.JSONResult(result)
}

func handleGetFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	fileID, err := request.RequireString("fileId")
	if err != nil || fileID == "" {
		return common.ErrorResult("fileId is required"), nil
	}

	client, err := sc.DriveClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Drive client", err), nil
	}
	info, err := client.GetFile(ctx, fileID)
	if err != nil {
		return common.ErrorFromErr("failed to get file", err), nil
	}
	return common.JSONResult(info)
}

func handleDownloadFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	fileID, err := request.RequireString("fileId")
	if err != nil || fileID == "" {
		return common.ErrorResult("fileId is required"), nil
	}

	client, err := sc.DriveClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Drive client", err), nil
	}
	result, err := client.Download(ctx, fileID, sc.DownloadDir(), request.GetString("format", ""))
	if err != nil {
		return common.ErrorFromErr("failed to download file", err), nil
	}
	return common.JSONResult(result)
}
