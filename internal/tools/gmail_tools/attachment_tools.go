package gmail_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

func registerAttachmentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	downloadTool := mcp.NewTool("gmail_download_attachment",
		mcp.WithDescription("Save a message attachment into the download directory and return its path"),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message"),
		),
		mcp.WithString("attachment",
			mcp.Required(),
			mcp.Description("Attachment ID, part ID or filename as listed by gmail_get_message"),
		),
	)
	s.AddTool(downloadTool, common.InstrumentedToolHandlerWithService("gmail_download_attachment",
		instrumentation.ServiceGmail, instrumentation.OperationDownload, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDownloadAttachment(ctx, request, sc)
		}))
	return nil
}

func handleDownloadAttachment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	messageID, err := request.RequireString("messageId")
	if err != nil || messageID == "" {
		return common.ErrorResult("messageId is required"), nil
	}
	ref, err := request.RequireString("attachment")
	if err != nil || ref == "" {
		return common.ErrorResult("attachment is required"), nil
	}

	client, err := sc.GmailClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Gmail client", err), nil
	}
	saved, err := client.DownloadAttachment(ctx, messageID, ref, sc.DownloadDir())
	if err != nil {
		return common.ErrorFromErr("failed to download attachment", err), nil
	}
	return common.JSONResult(saved)
}
