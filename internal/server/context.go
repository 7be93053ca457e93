package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"google.golang.org/api/option"

	"github.com/teemow/workspace-mcp/internal/docs"
	"github.com/teemow/workspace-mcp/internal/download"
	"github.com/teemow/workspace-mcp/internal/drive"
	"github.com/teemow/workspace-mcp/internal/gmail"
	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/logging"
	"github.com/teemow/workspace-mcp/internal/people"
	"github.com/teemow/workspace-mcp/internal/slides"
)

// Config configures a ServerContext.
type Config struct {
	// Auth is required.
	Auth *google.Manager

	Logger          *slog.Logger
	Instrumentation *instrumentation.Provider
	Audit           *instrumentation.AuditLogger

	// DownloadDir receives Gmail attachments and Drive files. Defaults to
	// download.DefaultDir().
	DownloadDir string

	// ReadOnly hides every tool that modifies Google data.
	ReadOnly bool

	// APIOptions are passed to every Google service client.
	APIOptions []option.ClientOption
}

// lazyClient caches a service client built on one authenticated HTTP client.
type lazyClient[T any] struct {
	base   *http.Client
	client T
}

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	auth        *google.Manager
	logger      *slog.Logger
	provider    *instrumentation.Provider
	audit       *instrumentation.AuditLogger
	downloadDir string
	readOnly    bool
	apiOptions  []option.ClientOption

	mu       sync.Mutex
	docs     lazyClient[*docs.Client]
	slides   lazyClient[*slides.Client]
	gmail    lazyClient[*gmail.Client]
	people   lazyClient[*people.Client]
	drive    lazyClient[*drive.Client]
	shutdown bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, cfg Config) (*ServerContext, error) {
	if cfg.Auth == nil {
		return nil, fmt.Errorf("auth manager is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	provider := cfg.Instrumentation
	if provider == nil {
		var err error
		provider, err = instrumentation.NewProvider(ctx, instrumentation.Config{Enabled: false})
		if err != nil {
			return nil, err
		}
	}
	dir := cfg.DownloadDir
	if dir == "" {
		dir = download.DefaultDir()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		auth:        cfg.Auth,
		logger:      logger,
		provider:    provider,
		audit:       cfg.Audit,
		downloadDir: dir,
		readOnly:    cfg.ReadOnly,
		apiOptions:  cfg.APIOptions,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Auth returns the Google auth manager.
func (sc *ServerContext) Auth() *google.Manager {
	return sc.auth
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder. It is never nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.provider.Metrics()
}

// Instrumentation returns the instrumentation provider.
func (sc *ServerContext) Instrumentation() *instrumentation.Provider {
	return sc.provider
}

// AuditLogger returns the audit logger, which may be nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.audit
}

// DownloadDir returns the directory downloads are written to.
func (sc *ServerContext) DownloadDir() string {
	return sc.downloadDir
}

// ReadOnly reports whether write tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// DocsClient returns the Docs client.
func (sc *ServerContext) DocsClient(ctx context.Context) (*docs.Client, error) {
	return lazy(sc, ctx, &sc.docs, docs.NewClient)
}

// SlidesClient returns the Slides client.
func (sc *ServerContext) SlidesClient(ctx context.Context) (*slides.Client, error) {
	return lazy(sc, ctx, &sc.slides, slides.NewClient)
}

// GmailClient returns the Gmail client.
func (sc *ServerContext) GmailClient(ctx context.Context) (*gmail.Client, error) {
	return lazy(sc, ctx, &sc.gmail, gmail.NewClient)
}

// PeopleClient returns the People client.
func (sc *ServerContext) PeopleClient(ctx context.Context) (*people.Client, error) {
	return lazy(sc, ctx, &sc.people, people.NewClient)
}

// DriveClient returns the Drive client.
func (sc *ServerContext) DriveClient(ctx context.Context) (*drive.Client, error) {
	return lazy(sc, ctx, &sc.drive, drive.NewClient)
}

type clientFactory[T any] func(context.Context, *http.Client, ...option.ClientOption) (T, error)

// lazy returns the cached client in slot, rebuilding it when the auth
// manager hands out a different HTTP client.
func lazy[T any](sc *ServerContext, ctx context.Context, slot *lazyClient[T], build clientFactory[T]) (T, error) {
	var zero T
	if sc.IsShutdown() {
		return zero, fmt.Errorf("server is shutting down")
	}

	// Client may refresh the token, so it runs outside the lock.
	base, err := sc.auth.Client(ctx)
	if err != nil {
		return zero, err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if slot.base == base {
		return slot.client, nil
	}
	client, err := build(sc.ctx, base, sc.apiOptions...)
	if err != nil {
		sc.logger.Warn("failed to create Google API client", logging.Err(err))
		return zero, err
	}
	slot.base = base
	slot.client = client
	return client, nil
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.shutdown
}

// Shutdown cancels the server context and flushes telemetry.
func (sc *ServerContext) Shutdown(ctx context.Context) error {
	sc.mu.Lock()
	if sc.shutdown {
		sc.mu.Unlock()
		return nil
	}
	sc.shutdown = true
	sc.mu.Unlock()

	sc.cancel()
	return sc.provider.Shutdown(ctx)
}
