// Package cmd implements the command-line interface for workspace-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server over stdio or streamable HTTP
//   - auth: Log in to Google, show, refresh or delete the stored credential
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// Configuration is resolved from flags, then environment variables, then an
// optional YAML file, then defaults.
package cmd
