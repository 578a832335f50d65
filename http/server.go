package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/remarkablejames/richtext"
)

// MaxRequestBodySize is the largest request body the server reads.
const MaxRequestBodySize = 10 << 20

// ShutdownTimeout bounds how long in-flight requests may run after the
// server is asked to stop.
const ShutdownTimeout = 10 * time.Second

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	log    *slog.Logger

	// Services used by the handlers. ArticleService may be nil, in which
	// case the article routes are not mounted.
	ArticleService richtext.ArticleService
	Previewer      *richtext.Previewer

	// Paywall holds the server-wide prompt overrides. Per-request
	// configuration is merged over it.
	Paywall richtext.PaywallOverrides

	// Limiter applies per-client rate limiting when set.
	Limiter *ClientLimiter
}

// NewServer creates the HTTP server. Fields must be set before Handler or
// ListenAndServe is called.
func NewServer(log *slog.Logger) *Server {
	return &Server{log: log}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	if s.router == nil {
		s.setupRoutes()
	}
	return s.router
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.Limiter != nil {
			r.Use(s.Limiter.Middleware)
		}

		r.Post("/api/paywall/process", s.handleProcess)
		r.Post("/api/paywall/check", s.handleCheck)
		r.Post("/api/paywall/free", s.handleFree)

		if s.ArticleService != nil {
			r.Get("/api/articles", s.handleListArticles)
			r.Post("/api/articles", s.handleCreateArticle)
			r.Get("/api/articles/{id}", s.handleGetArticle)
			r.Patch("/api/articles/{id}", s.handleUpdateArticle)
			r.Delete("/api/articles/{id}", s.handleDeleteArticle)
			r.Get("/api/articles/{id}/preview", s.handlePreviewArticle)
		}
	})

	s.router = r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.log.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
