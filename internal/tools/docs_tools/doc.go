// Package docs_tools provides MCP tools for reading and editing Google Docs.
//
// Read tools return a document as markdown, plain text or the raw Docs API
// JSON. Write tools insert and replace markdown: the markdown is compiled
// to plain text plus style ranges and applied as one batch update, so a
// failed edit leaves the document untouched. Write tools are not registered
// in read-only mode.
package docs_tools
