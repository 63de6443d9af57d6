package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dashnotes/backend/internal/config"
	authusecase "dashnotes/backend/internal/usecase/auth"
	noteusecase "dashnotes/backend/internal/usecase/note"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer  *http.Server
	router      *http.ServeMux
	authService *authusecase.Service
	noteService *noteusecase.Service
	cookies     SessionCookies
	validator   *requestValidator
	health      Pinger
	logger      *slog.Logger
	addr        string
}

// NewServer constructs a new Server with configured dependencies. health may be nil.
func NewServer(
	cfg config.Config,
	logger *slog.Logger,
	authService *authusecase.Service,
	noteService *noteusecase.Service,
	health Pinger,
) *Server {
	mux := http.NewServeMux()
	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	logger = logger.With("component", "httpserver")

	handler := withLogging(withRecovery(withCORS(mux, cfg.AllowedOrigins), logger), logger)

	srv := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
		},
		router:      mux,
		authService: authService,
		noteService: noteService,
		cookies:     NewSessionCookies(!cfg.IsDevelopment()),
		validator:   newRequestValidator(),
		health:      health,
		logger:      logger,
		addr:        addr,
	}
	srv.registerRoutes()
	return srv
}

// Start bootstraps the HTTP server on the configured address.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}
