package google

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// notifyingTokenSource wraps the oauth2 token source of the cached client
// and reports every new access token to a listener. This is how silent
// refreshes performed by the transport reach the Manager's merge path.
type notifyingTokenSource struct {
	mu       sync.Mutex
	src      oauth2.TokenSource
	last     string
	listener func(Credential)
}

func newNotifyingTokenSource(src oauth2.TokenSource, current string, listener func(Credential)) *notifyingTokenSource {
	return &notifyingTokenSource{src: src, last: current, listener: listener}
}

// Token implements oauth2.TokenSource.
func (s *notifyingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	src := s.src
	s.mu.Unlock()

	tok, err := src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := tok.AccessToken != s.last
	if changed {
		s.last = tok.AccessToken
	}
	s.mu.Unlock()

	if changed && s.listener != nil {
		s.listener(CredentialFromToken(tok))
	}
	return tok, nil
}

// reset swaps the underlying source after the Manager refreshed the
// credential itself, without notifying the listener.
func (s *notifyingTokenSource) reset(src oauth2.TokenSource, current string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src = src
	s.last = current
}

// refreshSource is the fallback source behind oauth2.ReuseTokenSource. It
// runs when the cached token is missing or expired.
type refreshSource struct {
	m *Manager
}

// Token implements oauth2.TokenSource.
func (r refreshSource) Token() (*oauth2.Token, error) {
	cred, ok := r.m.Credential()
	if !ok {
		return nil, &ConfigError{Description: "no stored Google credentials; run `workspace-mcp auth login` or use the google_get_auth_url tool"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	upd, err := r.m.fetch(ctx, cred.RefreshToken, TriggerSilent)
	if err != nil {
		return nil, err
	}
	return MergeCredential(cred, upd).Token(), nil
}
