package google

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OOBRedirectURL is used for the paste-the-code consent flow exposed as MCP tools.
const OOBRedirectURL = "urn:ietf:wg:oauth:2.0:oob"

// OAuthConfig describes the OAuth2 client registered with Google.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Config builds the oauth2.Config for the Google endpoints.
func (c OAuthConfig) Config() *oauth2.Config {
	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = DefaultOAuthScopes
	}
	redirect := c.RedirectURL
	if redirect == "" {
		redirect = OOBRedirectURL
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirect,
		Scopes:       scopes,
	}
}

// AuthCodeURL returns the consent URL for the given state. Offline access
// and forced consent make Google return a refresh token.
func AuthCodeURL(conf *oauth2.Config, state string) string {
	return conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a credential snapshot.
func Exchange(ctx context.Context, conf *oauth2.Config, code string) (Credential, error) {
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return Credential{}, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return CredentialFromToken(tok), nil
}

// newBaseTransport returns the transport used underneath the OAuth2
// transport. HTTP/2 is disabled because Google APIs intermittently reset
// long-lived HTTP/2 streams from desktop clients.
func newBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ForceAttemptHTTP2:     false,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
