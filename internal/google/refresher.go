package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Refresher exchanges a refresh token for a new token set. The returned
// credential is a fresh snapshot; it may omit the refresh token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (Credential, error)
}

// OAuthRefresher uses the oauth2 library's native refresh_token grant.
type OAuthRefresher struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewOAuthRefresher creates a native refresher. httpClient may be nil.
func NewOAuthRefresher(conf *oauth2.Config, httpClient *http.Client) *OAuthRefresher {
	return &OAuthRefresher{conf: conf, httpClient: httpClient}
}

// Refresh implements Refresher.
func (r *OAuthRefresher) Refresh(ctx context.Context, refreshToken string) (Credential, error) {
	if refreshToken == "" {
		return Credential{}, NewRefreshError(RefreshNoToken, 0, ErrNoRefreshToken)
	}
	if r.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	}

	// An empty access token forces the library to run the refresh grant.
	src := r.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return Credential{}, NewRefreshError(RefreshStatus, re.Response.StatusCode, err)
		}
		return Credential{}, NewRefreshError(RefreshTransport, 0, err)
	}
	if tok.AccessToken == "" {
		return Credential{}, NewRefreshError(RefreshInvalidResponse, 0, errors.New("response has no access_token"))
	}
	return CredentialFromToken(tok), nil
}

// EndpointRefresher posts the refresh token to a dedicated refresh service,
// for OAuth apps whose client secret is held server-side.
type EndpointRefresher struct {
	url        string
	httpClient *http.Client
}

// NewEndpointRefresher creates an EndpointRefresher. httpClient may be nil.
func NewEndpointRefresher(url string, httpClient *http.Client) *EndpointRefresher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &EndpointRefresher{url: url, httpClient: httpClient}
}

type endpointRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type endpointResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiryDate   int64  `json:"expiry_date,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
}

// Refresh implements Refresher.
func (r *EndpointRefresher) Refresh(ctx context.Context, refreshToken string) (Credential, error) {
	if refreshToken == "" {
		return Credential{}, NewRefreshError(RefreshNoToken, 0, ErrNoRefreshToken)
	}

	body, err := json.Marshal(endpointRequest{RefreshToken: refreshToken})
	if err != nil {
		return Credential{}, NewRefreshError(RefreshTransport, 0, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return Credential{}, NewRefreshError(RefreshTransport, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Credential{}, NewRefreshError(RefreshTransport, 0, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Credential{}, NewRefreshError(RefreshTransport, 0, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Credential{}, NewRefreshError(RefreshStatus, resp.StatusCode,
			fmt.Errorf("refresh endpoint returned %s", resp.Status))
	}

	var out endpointResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return Credential{}, NewRefreshError(RefreshInvalidResponse, 0, fmt.Errorf("failed to decode response: %w", err))
	}
	if out.AccessToken == "" {
		return Credential{}, NewRefreshError(RefreshInvalidResponse, 0, errors.New("response has no access_token"))
	}

	cred := Credential{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiryDate:   out.ExpiryDate,
		Scope:        out.Scope,
		TokenType:    out.TokenType,
		IDToken:      out.IDToken,
	}
	if cred.ExpiryDate == 0 && out.ExpiresIn > 0 {
		cred.ExpiryDate = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second).UnixMilli()
	}
	return cred, nil
}

// unconfiguredRefresher is used when neither a client secret nor a refresh
// endpoint is configured.
type unconfiguredRefresher struct{}

func (unconfiguredRefresher) Refresh(_ context.Context, refreshToken string) (Credential, error) {
	if refreshToken == "" {
		return Credential{}, NewRefreshError(RefreshNoToken, 0, ErrNoRefreshToken)
	}
	return Credential{}, &ConfigError{Description: "no client secret or refresh endpoint configured"}
}
