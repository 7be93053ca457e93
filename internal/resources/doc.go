// Package resources provides MCP resources for the local Google account.
// Resources are read-only data sources that MCP clients can fetch: the
// user's profile and the state of the stored OAuth credential.
package resources
