package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nao1215/vistoria/internal/config"
	"github.com/nao1215/vistoria/internal/model"
	"github.com/nao1215/vistoria/internal/source"
)

// Server is the HTTP server for inspection reports.
type Server struct {
	fetcher source.Fetcher
	mapping *model.ColumnMapping
	auth    *Authenticator
	logger  *slog.Logger
	router  *chi.Mux
	server  *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and error logs.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMapping sets the column mapping used to build reports.
// Without a mapping, columns are classified by keyword.
func WithMapping(mapping *model.ColumnMapping) Option {
	return func(s *Server) {
		s.mapping = mapping
	}
}

// WithUsers enables basic authentication for the API routes.
// An empty user set leaves the routes open.
func WithUsers(users map[string]config.User) Option {
	return func(s *Server) {
		if len(users) == 0 {
			s.auth = nil
			return
		}
		s.auth = NewAuthenticator(users)
	}
}

// NewServer creates a server reading datasets from fetcher.
func NewServer(fetcher source.Fetcher, opts ...Option) *Server {
	s := &Server{
		fetcher: fetcher,
		logger:  slog.Default(),
		router:  chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		if s.auth != nil {
			r.Use(s.auth.Middleware(s.logger))
		}

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/records", s.handleListRecords)
		r.Get("/records/{index}", s.handleRecord)
		r.Get("/records/{index}/report", s.handleRecordReport)
	})
}

// ErrOpenServer is returned when a server without users would listen on
// an address reachable from other hosts.
var ErrOpenServer = errors.New("no users configured for a non-loopback address")

// IsLoopback reports whether addr only listens on the loopback interface.
// An empty host listens on every interface.
func IsLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// CheckBind reports ErrOpenServer when the server has no users and addr
// is not a loopback address.
func (s *Server) CheckBind(addr string) error {
	if s.auth == nil && !IsLoopback(addr) {
		return fmt.Errorf("%w: %s", ErrOpenServer, addr)
	}
	return nil
}

// Start begins listening for HTTP requests on addr. It blocks until the
// server stops and returns nil after a graceful Shutdown.
func (s *Server) Start(addr string) error {
	if err := s.CheckBind(addr); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.CheckBind(ln.Addr().String()); err != nil {
		_ = ln.Close() //nolint:errcheck // the bind error is more useful
		return err
	}
	s.logger.Info("starting server", "addr", ln.Addr().String(), "auth", s.auth != nil)
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
