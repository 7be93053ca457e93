// Package people_tools provides MCP tools for the Google People API:
// contact search across personal, other and directory contacts, listing
// saved contacts and reading the user's own profile. All tools are read-only.
package people_tools
