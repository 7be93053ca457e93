// Package google_tools provides the MCP tools that manage the Google OAuth
// credential: in-band consent (get an authorization URL, save the code the
// user pastes back), status and manual token refresh.
package google_tools
