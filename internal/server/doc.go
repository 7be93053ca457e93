// Package server provides the MCP server context and the auxiliary HTTP
// endpoints (metrics and health probes) of workspace-mcp.
//
// ServerContext owns the Google auth manager and builds the Docs, Slides,
// Gmail, People and Drive clients lazily on top of the manager's
// authenticated HTTP client. Tool handlers ask the context for a client on
// every call; the manager refreshes expiring tokens before handing out the
// HTTP client, so a cached service client never carries a stale token.
package server
