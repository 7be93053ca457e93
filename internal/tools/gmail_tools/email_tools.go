package gmail_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/gmail"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// sendResult is returned by gmail_send.
type sendResult struct {
	MessageID string   `json:"messageId"`
	ThreadID  string   `json:"threadId,omitempty"`
	To        []string `json:"to"`
	Cc        []string `json:"cc,omitempty"`
	Bcc       []string `json:"bcc,omitempty"`
	Subject   string   `json:"subject"`
}

func registerSendTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	sendTool := mcp.NewTool("gmail_send",
		mcp.WithDescription("Send an email through Gmail. The primary send-as signature is appended."),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address(es), comma-separated for multiple recipients"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body content"),
		),
		mcp.WithString("cc",
			mcp.Description("CC email address(es), comma-separated for multiple recipients"),
		),
		mcp.WithString("bcc",
			mcp.Description("BCC email address(es), comma-separated for multiple recipients"),
		),
		mcp.WithBoolean("isHtml",
			mcp.Description("Whether the body is HTML (default: false for plain text)"),
		),
		mcp.WithString("threadId",
			mcp.Description("Thread to reply in"),
		),
		mcp.WithString("inReplyTo",
			mcp.Description("Message-ID header of the message being answered"),
		),
	)
	s.AddTool(sendTool, common.InstrumentedToolHandlerWithService("gmail_send",
		instrumentation.ServiceGmail, instrumentation.OperationSend, true, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSend(ctx, request, sc)
		}))
	return nil
}

func handleSend(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	to := common.StringList(request, "to")
	if len(to) == 0 {
		return common.ErrorResult("'to' field is required"), nil
	}
	subject := request.GetString("subject", "")
	if subject == "" {
		return common.ErrorResult("'subject' field is required"), nil
	}
	body := request.GetString("body", "")
	if body == "" {
		return common.ErrorResult("'body' field is required"), nil
	}

	msg := &gmail.EmailMessage{
		To:        to,
		Cc:        common.StringList(request, "cc"),
		Bcc:       common.StringList(request, "bcc"),
		Subject:   subject,
		Body:      body,
		IsHTML:    request.GetBool("isHtml", false),
		ThreadID:  request.GetString("threadId", ""),
		InReplyTo: request.GetString("inReplyTo", ""),
	}

	client, err := sc.GmailClient(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to create Gmail client", err), nil
	}
	messageID, err := client.Send(ctx, msg)
	if err != nil {
		return common.ErrorFromErr("failed to send email", err), nil
	}
	return common.JSONResult(sendResult{
		MessageID: messageID,
		ThreadID:  msg.ThreadID,
		To:        msg.To,
		Cc:        msg.Cc,
		Bcc:       msg.Bcc,
		Subject:   subject,
	})
}
