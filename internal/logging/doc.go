// Package logging holds the slog conventions used by workspace-mcp.
//
// Setup builds the process logger. Because the stdio transport owns stdout,
// callers pass os.Stderr as the writer.
//
// Attribute helpers keep key names uniform across packages:
//
//	logger := logging.WithTool(slog.Default(), "docs_replace_text")
//	logger.Debug("tool call finished",
//	    logging.Status(logging.StatusSuccess),
//	    logging.Duration(elapsed))
//
// Tokens never reach the logs. Use SanitizeToken when a log line has to
// mention one.
package logging
