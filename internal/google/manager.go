package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/logging"
)

// DefaultRefreshMargin is how long before expiry a token is proactively refreshed.
const DefaultRefreshMargin = time.Minute

const refreshTimeout = 30 * time.Second

// Trigger identifies what started a token refresh.
type Trigger string

const (
	// TriggerProactive is a refresh started by Client before handing out an expiring token.
	TriggerProactive Trigger = "proactive"
	// TriggerSilent is a refresh performed by the client's token source during a request.
	TriggerSilent Trigger = "silent"
	// TriggerManual is a refresh requested through RefreshToken.
	TriggerManual Trigger = "manual"
)

// RefreshRecorder records token refresh outcomes.
type RefreshRecorder interface {
	RecordOAuthTokenRefresh(ctx context.Context, result, trigger string)
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// OAuth is the registered OAuth client. A client secret enables the
	// native refresh flow.
	OAuth OAuthConfig

	// RefreshEndpoint is used for refreshes when no client secret is configured.
	RefreshEndpoint string

	// Refresher overrides refresher selection.
	Refresher Refresher

	// Store persists the credential. Defaults to an in-memory store.
	Store CredentialStore

	// RefreshMargin defaults to DefaultRefreshMargin.
	RefreshMargin time.Duration

	// RateLimit limits outgoing Google API requests. Nil uses DefaultRateLimit.
	RateLimit *RateLimitConfig

	// BaseTransport replaces the HTTP/1.1 transport under the OAuth2 transport.
	BaseTransport http.RoundTripper

	// HTTPClient is used for refresh requests.
	HTTPClient *http.Client

	Metrics RefreshRecorder

	// APIMetrics records every request sent through Client. Spans are
	// started either way.
	APIMetrics instrumentation.APIRecorder

	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Status summarizes the current credential without exposing tokens.
type Status struct {
	Authenticated   bool      `json:"authenticated"`
	HasRefreshToken bool      `json:"has_refresh_token"`
	Expiry          time.Time `json:"expiry,omitempty"`
	Expired         bool      `json:"expired"`
	Scope           string    `json:"scope,omitempty"`
}

// Manager owns the authenticated HTTP client and the in-memory credential
// for the local Google account.
type Manager struct {
	oauthConf *oauth2.Config
	refresher Refresher
	store     CredentialStore
	margin    time.Duration
	transport http.RoundTripper
	metrics   RefreshRecorder
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	loaded bool
	cred   *Credential
	client *http.Client
	ts     *notifyingTokenSource

	// saveMu serializes persistence so the last write is the latest merge.
	saveMu sync.Mutex
	group  singleflight.Group
}

// NewManager creates a Manager. No credentials are loaded until first use.
func NewManager(cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore(nil)
	}
	margin := cfg.RefreshMargin
	if margin <= 0 {
		margin = DefaultRefreshMargin
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	rl := DefaultRateLimit
	if cfg.RateLimit != nil {
		rl = *cfg.RateLimit
	}
	base := cfg.BaseTransport
	if base == nil {
		base = newBaseTransport()
	}

	oauthConf := cfg.OAuth.Config()
	refresher := cfg.Refresher
	if refresher == nil {
		switch {
		case cfg.OAuth.ClientSecret != "":
			refresher = NewOAuthRefresher(oauthConf, cfg.HTTPClient)
		case cfg.RefreshEndpoint != "":
			refresher = NewEndpointRefresher(cfg.RefreshEndpoint, cfg.HTTPClient)
		default:
			refresher = unconfiguredRefresher{}
		}
	}

	return &Manager{
		oauthConf: oauthConf,
		refresher: refresher,
		store:     store,
		margin:    margin,
		transport: instrumentation.NewGoogleAPITransport(newRateLimitedTransport(base, rl), cfg.APIMetrics),
		metrics:   cfg.Metrics,
		logger:    logging.WithService(logger, "google_auth"),
		now:       now,
	}
}

// OAuthConfig returns the oauth2 configuration used for consent.
func (m *Manager) OAuthConfig() *oauth2.Config {
	return m.oauthConf
}

// Client returns the process-wide authenticated HTTP client. The client is
// built once. On later calls, a credential that has expired or expires
// within the refresh margin is refreshed before the client is returned.
//
// When no credential is stored the client is still returned; requests made
// with it fail with a ConfigError.
func (m *Manager) Client(ctx context.Context) (*http.Client, error) {
	m.mu.Lock()
	if m.client == nil {
		if err := m.loadLocked(ctx); err != nil {
			m.mu.Unlock()
			return nil, err
		}
		var current *Credential
		if m.cred != nil {
			c := *m.cred
			current = &c
		}
		m.ts = newNotifyingTokenSource(m.sourceFor(current), accessTokenOf(current), m.onTokenUpdate)
		m.client = &http.Client{
			Transport: &oauth2.Transport{Source: m.ts, Base: m.transport},
		}
		client := m.client
		m.mu.Unlock()
		m.logger.Debug("built authenticated client", slog.Bool("has_credential", current != nil))
		return client, nil
	}
	client := m.client
	var cred Credential
	hasCred := m.cred != nil
	if hasCred {
		cred = *m.cred
	}
	m.mu.Unlock()

	if hasCred && cred.ExpiresWithin(m.now(), m.margin) {
		if _, err := m.refresh(ctx, TriggerProactive); err != nil {
			var re *RefreshError
			if errors.As(err, &re) || IsConfigError(err) {
				return nil, err
			}
			// Persistence failures leave a usable in-memory token.
			m.logger.Warn("proactive refresh not persisted", logging.Err(err))
		}
	}
	return client, nil
}

// RefreshToken refreshes the access token regardless of its current validity
// and returns the merged credential.
func (m *Manager) RefreshToken(ctx context.Context) (Credential, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return Credential{}, err
	}
	return m.refresh(ctx, TriggerManual)
}

// Credential returns a copy of the last known credential.
func (m *Manager) Credential() (Credential, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred == nil {
		return Credential{}, false
	}
	return *m.cred, true
}

// Authorize installs a credential obtained from a fresh consent, persisting
// it through the same merge path as refreshes.
func (m *Manager) Authorize(ctx context.Context, cred Credential) error {
	if cred.AccessToken == "" {
		return errors.New("credential has no access token")
	}
	if err := m.ensureLoaded(ctx); err != nil {
		return err
	}
	merged, err := m.handleTokenUpdate(ctx, cred)
	m.resetSource(merged)
	if err != nil {
		return err
	}
	m.logger.Info("stored new Google credential",
		slog.String("access_token", logging.SanitizeToken(merged.AccessToken)),
		slog.Bool("has_refresh_token", merged.RefreshToken != ""))
	return nil
}

// Logout deletes the stored credential and forgets the in-memory copy.
func (m *Manager) Logout(ctx context.Context) error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	if err := m.store.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	m.mu.Lock()
	m.cred = nil
	m.loaded = true
	ts := m.ts
	m.mu.Unlock()
	if ts != nil {
		ts.reset(m.sourceFor(nil), "")
	}
	return nil
}

// Status reports the state of the current credential.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return Status{}, err
	}
	cred, ok := m.Credential()
	if !ok {
		return Status{}, nil
	}
	return Status{
		Authenticated:   cred.AccessToken != "" || cred.RefreshToken != "",
		HasRefreshToken: cred.RefreshToken != "",
		Expiry:          cred.Expiry(),
		Expired:         cred.ExpiresWithin(m.now(), 0),
		Scope:           cred.Scope,
	}, nil
}

func (m *Manager) ensureLoaded(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(ctx)
}

func (m *Manager) loadLocked(ctx context.Context) error {
	if m.loaded {
		return nil
	}
	cred, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load credential: %w", err)
	}
	m.cred = cred
	m.loaded = true
	return nil
}

// refresh runs the refresh sequence: read the current credential, fetch a
// new token set, merge, persist and swap the client's token.
func (m *Manager) refresh(ctx context.Context, trigger Trigger) (Credential, error) {
	cred, ok := m.Credential()
	if !ok || cred.RefreshToken == "" {
		err := NewRefreshError(RefreshNoToken, 0, ErrNoRefreshToken)
		m.recordRefresh(ctx, trigger, err)
		return Credential{}, err
	}

	upd, err := m.fetch(ctx, cred.RefreshToken, trigger)
	if err != nil {
		return Credential{}, err
	}
	merged, err := m.handleTokenUpdate(ctx, upd)
	m.resetSource(merged)
	return merged, err
}

// fetch performs the upstream exchange. Concurrent callers share one exchange.
func (m *Manager) fetch(ctx context.Context, refreshToken string, trigger Trigger) (Credential, error) {
	v, err, shared := m.group.Do("refresh", func() (interface{}, error) {
		start := m.now()
		spanCtx, span := instrumentation.StartRefreshSpan(ctx, string(trigger))
		upd, err := m.refresher.Refresh(spanCtx, refreshToken)
		instrumentation.EndSpan(span, err)
		m.recordRefresh(ctx, trigger, err)
		if err != nil {
			m.logger.Warn("token refresh failed",
				logging.Trigger(string(trigger)),
				logging.Err(err))
			return Credential{}, err
		}
		m.logger.Debug("token refreshed",
			logging.Trigger(string(trigger)),
			logging.Duration(m.now().Sub(start)),
			slog.Bool("rotated_refresh_token", upd.RefreshToken != ""))
		return upd, nil
	})
	if err != nil {
		return Credential{}, err
	}
	if shared {
		m.logger.Debug("joined in-flight token refresh", logging.Trigger(string(trigger)))
	}
	return v.(Credential), nil
}

// onTokenUpdate is the token-update listener attached to the cached client.
func (m *Manager) onTokenUpdate(upd Credential) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if _, err := m.handleTokenUpdate(ctx, upd); err != nil {
		m.logger.Warn("failed to persist silently refreshed token", logging.Err(err))
	}
}

// handleTokenUpdate is the single merge-and-persist path for every new
// token. An update that expires before the current credential is stale
// and leaves the credential unchanged.
func (m *Manager) handleTokenUpdate(ctx context.Context, upd Credential) (Credential, error) {
	m.mu.Lock()
	var prev Credential
	if m.cred != nil {
		prev = *m.cred
	}
	if upd.AccessToken != prev.AccessToken && upd.ExpiryDate != 0 && upd.ExpiryDate < prev.ExpiryDate {
		m.mu.Unlock()
		m.logger.Debug("ignored stale token update")
		return prev, nil
	}
	merged := MergeCredential(prev, upd)
	m.cred = &merged
	m.loaded = true
	m.mu.Unlock()

	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	latest, _ := m.Credential()
	if err := m.store.Save(ctx, latest); err != nil {
		return merged, fmt.Errorf("failed to persist credential: %w", err)
	}
	return merged, nil
}

func (m *Manager) resetSource(cred Credential) {
	m.mu.Lock()
	ts := m.ts
	m.mu.Unlock()
	if ts == nil || cred.AccessToken == "" {
		return
	}
	ts.reset(m.sourceFor(&cred), cred.AccessToken)
}

func (m *Manager) sourceFor(cred *Credential) oauth2.TokenSource {
	var tok *oauth2.Token
	if cred != nil && cred.AccessToken != "" {
		tok = cred.Token()
	}
	return oauth2.ReuseTokenSource(tok, refreshSource{m: m})
}

func (m *Manager) recordRefresh(ctx context.Context, trigger Trigger, err error) {
	if m.metrics == nil {
		return
	}
	result := logging.StatusSuccess
	if err != nil {
		result = logging.StatusError
	}
	m.metrics.RecordOAuthTokenRefresh(ctx, result, string(trigger))
}

func accessTokenOf(c *Credential) string {
	if c == nil {
		return ""
	}
	return c.AccessToken
}
