package google_tools

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/server"
	"github.com/teemow/workspace-mcp/internal/tools/common"
)

// RegisterGoogleTools registers all Google OAuth-related tools with the MCP server
func RegisterGoogleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getAuthURLTool := mcp.NewTool("google_get_auth_url",
		mcp.WithDescription("Get the OAuth URL to authorize access to Google Docs, Slides, Gmail, Contacts and Drive"),
	)
	s.AddTool(getAuthURLTool, common.InstrumentedToolHandler("google_get_auth_url", false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetAuthURL(ctx, request, sc)
		}))

	saveAuthCodeTool := mcp.NewTool("google_save_auth_code",
		mcp.WithDescription("Save the OAuth authorization code to complete Google authentication"),
		mcp.WithString("authCode",
			mcp.Required(),
			mcp.Description("The authorization code from Google OAuth"),
		),
	)
	s.AddTool(saveAuthCodeTool, common.InstrumentedToolHandlerWithService("google_save_auth_code",
		instrumentation.ServiceOAuth, instrumentation.OperationCreate, true, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSaveAuthCode(ctx, request, sc)
		}))

	statusTool := mcp.NewTool("google_auth_status",
		mcp.WithDescription("Show whether a Google credential is stored and when its access token expires"),
	)
	s.AddTool(statusTool, common.InstrumentedToolHandler("google_auth_status", false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleStatus(ctx, request, sc)
		}))

	refreshTool := mcp.NewTool("google_refresh_token",
		mcp.WithDescription("Refresh the Google access token now, regardless of its expiry"),
	)
	s.AddTool(refreshTool, common.InstrumentedToolHandlerWithService("google_refresh_token",
		instrumentation.ServiceOAuth, instrumentation.OperationRefresh, false, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRefresh(ctx, request, sc)
		}))

	return nil
}

func handleGetAuthURL(_ context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	authURL := google.AuthCodeURL(sc.Auth().OAuthConfig(), uuid.NewString())

	return common.TextResult(`To authorize Google Workspace access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google services
4. Copy the authorization code

5. Call the google_save_auth_code tool with the code to complete authentication`, authURL)
}

func handleSaveAuthCode(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	authCode, err := request.RequireString("authCode")
	if err != nil || authCode == "" {
		return common.ErrorResult("authCode is required"), nil
	}

	metrics := sc.Metrics()
	cred, err := google.Exchange(ctx, sc.Auth().OAuthConfig(), authCode)
	if err != nil {
		metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return common.ErrorFromErr("failed to exchange authorization code", err), nil
	}
	if err := sc.Auth().Authorize(ctx, cred); err != nil {
		metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return common.ErrorFromErr("failed to save credential", err), nil
	}
	metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)

	return common.TextResult("Authorization successful. Google credential saved; all Workspace tools are ready to use.")
}

// authStatus is the JSON shape of google_auth_status and google_refresh_token.
type authStatus struct {
	Authenticated   bool   `json:"authenticated"`
	HasRefreshToken bool   `json:"hasRefreshToken"`
	Expired         bool   `json:"expired"`
	ExpiresAt       string `json:"expiresAt,omitempty"`
	ExpiresIn       string `json:"expiresIn,omitempty"`
	Scope           string `json:"scope,omitempty"`
}

func newAuthStatus(st google.Status) authStatus {
	out := authStatus{
		Authenticated:   st.Authenticated,
		HasRefreshToken: st.HasRefreshToken,
		Expired:         st.Expired,
		Scope:           st.Scope,
	}
	if !st.Expiry.IsZero() {
		out.ExpiresAt = st.Expiry.UTC().Format(time.RFC3339)
		if remaining := time.Until(st.Expiry); remaining > 0 {
			out.ExpiresIn = remaining.Truncate(time.Second).String()
		}
	}
	return out
}

func handleStatus(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	st, err := sc.Auth().Status(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to read credential", err), nil
	}
	return common.JSONResult(newAuthStatus(st))
}

func handleRefresh(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if _, err := sc.Auth().RefreshToken(ctx); err != nil {
		return common.ErrorFromErr("failed to refresh token", err), nil
	}
	st, err := sc.Auth().Status(ctx)
	if err != nil {
		return common.ErrorFromErr("failed to read credential", err), nil
	}
	return common.JSONResult(newAuthStatus(st))
}

