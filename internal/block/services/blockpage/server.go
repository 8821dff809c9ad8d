// Package blockpage is the always-on loopback responder: while a block
// is active it answers every request on the web and secure-web ports
// with a fixed "you are blocked" page. It runs as a detached process so
// it keeps serving after the controller exits.
package blockpage

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/repos/certs"
)

// DefaultPage is served when no custom page file is configured.
const DefaultPage = `<!DOCTYPE html>
<html>
<head><title>Blocked</title>
<style>body{background:#1a1a2e;color:#fff;font-family:sans-serif;display:flex;align-items:center;justify-content:center;min-height:100vh;margin:0}
.c{text-align:center}h1{color:#e53e3e;font-size:3rem}</style>
</head>
<body><div class="c"><h1>Focus Mode Active</h1><p>Get back to work.</p></div></body>
</html>
`

const shutdownTimeout = 5 * time.Second

// Options configures a Server. Page and Certs are immutable for the
// server's lifetime once passed in.
type Options struct {
	// HTTPAddr and HTTPSAddr are the loopback listen addresses,
	// e.g. "127.0.0.1:80" and "127.0.0.1:443".
	HTTPAddr  string
	HTTPSAddr string

	// Page is the static HTML body. Empty falls back to DefaultPage.
	Page []byte

	// Certs is the certificate pair for the TLS listener. An empty pair
	// disables the TLS listener; the plaintext one still serves.
	Certs certs.Pair

	Logger log.Logger
}

// Server serves the block page on two concurrent loopback listeners.
type Server struct {
	httpAddr  string
	httpsAddr string
	page      []byte
	pair      certs.Pair
	logger    log.Logger

	mu      sync.Mutex
	running bool
	servers []*http.Server
	addrs   []string
}

// New creates a Server from options.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	page := opts.Page
	if len(page) == 0 {
		page = []byte(DefaultPage)
	}
	return &Server{
		httpAddr:  opts.HTTPAddr,
		httpsAddr: opts.HTTPSAddr,
		page:      page,
		pair:      opts.Certs,
		logger:    logger,
	}
}

// Handler answers every method and path with the block page. HEAD gets
// headers only. net/http runs each connection on its own goroutine, so a
// slow client never stalls the accept loop.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Type", "text/html; charset=utf-8")
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		h.Set("Connection", "close")
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = w.Write(s.page)
		}
	})
}

// Start binds both listeners and begins serving. A listener that fails
// to bind (port taken, low-port privilege) is logged and skipped; the
// other keeps serving. Only when neither listener comes up is an error
// returned.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("block page server already running")
	}

	handler := s.Handler()

	if ln, err := net.Listen("tcp", s.httpAddr); err != nil {
		s.logger.Error(map[string]any{
			"address": s.httpAddr,
			"error":   err.Error(),
		}, "cannot bind HTTP listener")
	} else {
		s.serveOn(ln, handler, "http")
	}

	if s.pair.CertFile == "" || s.pair.KeyFile == "" {
		s.logger.Warn(nil, "no certificate pair, HTTPS listener disabled")
	} else if cert, err := tls.LoadX509KeyPair(s.pair.CertFile, s.pair.KeyFile); err != nil {
		s.logger.Error(map[string]any{
			"cert":  s.pair.CertFile,
			"error": err.Error(),
		}, "cannot load certificate pair, HTTPS listener disabled")
	} else if ln, err := net.Listen("tcp", s.httpsAddr); err != nil {
		s.logger.Error(map[string]any{
			"address": s.httpsAddr,
			"error":   err.Error(),
		}, "cannot bind HTTPS listener")
	} else {
		tlsLn := tls.NewListener(ln, &tls.Config{Certificates: []tls.Certificate{cert}})
		s.serveOn(tlsLn, handler, "https")
	}

	if len(s.servers) == 0 {
		return fmt.Errorf("no block page listener could bind")
	}

	s.running = true
	return nil
}

// serveOn starts one listener's serve loop. Caller holds s.mu.
func (s *Server) serveOn(ln net.Listener, handler http.Handler, scheme string) {
	srv := &http.Server{Handler: handler}
	s.servers = append(s.servers, srv)
	s.addrs = append(s.addrs, ln.Addr().String())

	s.logger.Info(map[string]any{
		"scheme":  scheme,
		"address": ln.Addr().String(),
	}, "block page listener started")

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(map[string]any{
				"scheme": scheme,
				"error":  err.Error(),
			}, "block page listener stopped unexpectedly")
		}
	}()
}

// Stop gracefully shuts down every listener.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	for _, srv := range s.servers {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.servers = nil
	s.addrs = nil
	s.running = false

	s.logger.Info(nil, "block page server stopped")
	return errors.Join(errs...)
}

// Run starts the server and blocks until ctx is cancelled, then shuts
// down. This is the body of the detached service process.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop()
}

// Addresses returns the bound listener addresses.
func (s *Server) Addresses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.addrs...)
}

// LoadPage reads the block page HTML from path, or returns DefaultPage
// when path is empty or unreadable.
func LoadPage(path string, logger log.Logger) []byte {
	if path == "" {
		return []byte(DefaultPage)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if logger != nil {
			logger.Warn(map[string]any{
				"path":  path,
				"error": err.Error(),
			}, "cannot read page file, using built-in page")
		}
		return []byte(DefaultPage)
	}
	return raw
}
