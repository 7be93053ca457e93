// Package slides_tools provides MCP tools for Google Slides: reading the
// text of a presentation, bulk text replacement and creating presentations.
package slides_tools
