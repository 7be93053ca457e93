package google

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CallbackServer receives the OAuth redirect on a loopback address during
// `auth login`.
type CallbackServer struct {
	mu       sync.Mutex
	port     int
	state    string
	codeChan chan string
	errChan  chan error
	server   *http.Server
	listener net.Listener
}

// NewCallbackServer creates a callback server with a random state value.
// Port 0 picks a free port.
func NewCallbackServer(port int) *CallbackServer {
	return &CallbackServer{
		port:     port,
		state:    uuid.NewString(),
		codeChan: make(chan string, 1),
		errChan:  make(chan error, 1),
	}
}

// State returns the value that must come back in the redirect.
func (s *CallbackServer) State() string {
	return s.state
}

// Start begins listening on 127.0.0.1.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)
	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.sendErr(err)
		}
	}()
	return nil
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if e := q.Get("error"); e != "" {
		s.sendErr(fmt.Errorf("oauth error: %s - %s", e, q.Get("error_description")))
		fmt.Fprint(w, callbackPage("Authorization failed: "+q.Get("error_description")))
		return
	}
	if q.Get("state") != s.state {
		s.sendErr(errors.New("state mismatch in OAuth callback"))
		fmt.Fprint(w, callbackPage("Authorization failed: invalid state parameter"))
		return
	}
	code := q.Get("code")
	if code == "" {
		s.sendErr(errors.New("no authorization code received"))
		fmt.Fprint(w, callbackPage("Authorization failed: no code received"))
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}
	fmt.Fprint(w, callbackPage("Authorization successful. You can close this window."))
}

func (s *CallbackServer) sendErr(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// WaitForCode blocks until a code arrives, the callback reports an error,
// or ctx is done.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts the server down.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// RedirectURL returns the redirect URL to register in the consent request.
func (s *CallbackServer) RedirectURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d/callback", s.port)
}

func callbackPage(message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>workspace-mcp</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 20vh;">
<h1>%s</h1>
</body>
</html>`, html.EscapeString(message))
}
