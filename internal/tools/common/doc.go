// Package common provides shared utilities for MCP tool implementations:
// the JSON result and error envelopes, argument helpers and the
// instrumented handler wrapper every tool is registered through.
package common
