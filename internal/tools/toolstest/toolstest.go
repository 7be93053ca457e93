// Package toolstest provides helpers for testing MCP tool handlers against
// fake Google APIs.
package toolstest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"google.golang.org/api/option"

	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/server"
)

// Options tweak the server context built by NewServerContext.
type Options struct {
	ReadOnly bool
	// Credential seeds the credential store. Nil stores a valid credential;
	// use NoCredential for an empty store.
	Credential *google.Credential
	// NoCredential leaves the credential store empty.
	NoCredential bool
	// RefreshEndpoint configures endpoint based refresh.
	RefreshEndpoint string
}

// ValidCredential returns a credential that expires in an hour.
func ValidCredential() *google.Credential {
	return &google.Credential{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		ExpiryDate:   time.Now().Add(time.Hour).UnixMilli(),
		TokenType:    "Bearer",
	}
}

// NewServerContext returns a server context whose Google API clients talk
// to api. The context and the fake server are closed when t ends.
func NewServerContext(t testing.TB, api http.Handler, opts Options) *server.ServerContext {
	t.Helper()
	if api == nil {
		api = http.NotFoundHandler()
	}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	var store *google.MemoryStore
	switch {
	case opts.NoCredential:
		store = google.NewMemoryStore(nil)
	case opts.Credential != nil:
		store = google.NewMemoryStore(opts.Credential)
	default:
		store = google.NewMemoryStore(ValidCredential())
	}

	manager := google.NewManager(google.ManagerConfig{
		OAuth:           google.OAuthConfig{ClientID: "test-client"},
		RefreshEndpoint: opts.RefreshEndpoint,
		Store:           store,
	})
	sc, err := server.NewServerContext(context.Background(), server.Config{
		Auth:        manager,
		DownloadDir: t.TempDir(),
		ReadOnly:    opts.ReadOnly,
		APIOptions:  []option.ClientOption{option.WithEndpoint(srv.URL + "/")},
	})
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown(context.Background()) })
	return sc
}

// Request builds a tool call request with the given arguments.
func Request(args map[string]any) mcp.CallToolRequest {
	var r mcp.CallToolRequest
	r.Params.Arguments = args
	return r
}

// ToolNames returns the sorted names of the tools registered on s.
func ToolNames(s *mcpserver.MCPServer) []string {
	var names []string
	for name := range s.ListTools() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewMCPServer returns an empty MCP server for registration tests.
func NewMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))
}
