package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/logging"
	"github.com/teemow/workspace-mcp/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a trace span, metrics
// and audit logging. write marks tools that modify Google data or send mail.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", false, sc, handler))
func InstrumentedToolHandler(toolName string, write bool, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return instrument(toolName, "", "", write, sc, handler)
}

// InstrumentedToolHandlerWithService is like InstrumentedToolHandler but also
// tags the tool span and debug log with the Google service and operation.
// Google API metrics are recorded per request by the auth manager's transport.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithService("my_tool", "gmail", "list", false, sc, handler))
func InstrumentedToolHandlerWithService(toolName, serviceName, operation string, write bool, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return instrument(toolName, serviceName, operation, write, sc, handler)
}

func instrument(toolName, serviceName, operation string, write bool, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		attrs := []attribute.KeyValue{attribute.Bool(instrumentation.SpanAttrReadOnly, !write)}
		if serviceName != "" {
			attrs = append(attrs,
				attribute.String(instrumentation.SpanAttrService, serviceName),
				attribute.String(instrumentation.SpanAttrOperation, operation),
			)
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs...)

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName, write).WithSpanContext(ctx)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		switch {
		case err != nil:
			invocation.Complete(false, err.Error())
		case result != nil && result.IsError:
			invocation.Complete(false, ResultText(result))
		default:
			invocation.Complete(true, "")
		}

		spanErr := err
		if spanErr == nil && !invocation.Success {
			spanErr = toolError(invocation.Error)
		}
		instrumentation.EndSpan(span, spanErr)

		status := invocation.Status()
		sc.Metrics().RecordToolInvocation(ctx, toolName, status, duration)
		sc.AuditLogger().LogToolInvocation(ctx, invocation)

		logger := logging.WithTool(sc.Logger(), toolName)
		if serviceName != "" {
			logger = logger.With(logging.Service(serviceName), logging.Operation(operation))
		}
		logger.DebugContext(ctx, "tool call finished", logging.Status(status), logging.Duration(duration))

		return result, err
	}
}

type toolError string

func (e toolError) Error() string { return string(e) }
