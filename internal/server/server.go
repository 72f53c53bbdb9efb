// Package server exposes the toast store, history and contact flow over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/colonyops/toaster/internal/core/contact"
	"github.com/colonyops/toaster/internal/core/logging"
	"github.com/colonyops/toaster/internal/core/toast"
)

const shutdownTimeout = 5 * time.Second

// Options configures the router.
type Options struct {
	AllowedOrigins []string
	ContactRate    float64 // submissions per second, per client
	ContactBurst   int
	// TrustProxy rewrites RemoteAddr from proxy headers before rate limiting.
	TrustProxy bool
	// KeepAlive is the interval between SSE comment frames. Zero uses 15s.
	KeepAlive time.Duration
}

// Deps holds the services served by the router.
type Deps struct {
	Toasts  *toast.Store
	History toast.History // nil when history is disabled
	Contact *contact.Service
}

// Server wraps the router and its background resources.
type Server struct {
	handler http.Handler
	limiter *RateLimiter
}

// New builds the router.
func New(opts Options, deps Deps) *Server {
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = 15 * time.Second
	}

	contactRL := NewRateLimiter(rate.Limit(opts.ContactRate), opts.ContactBurst)

	h := &handlers{
		toasts:    deps.Toasts,
		history:   deps.History,
		contact:   deps.Contact,
		keepAlive: opts.KeepAlive,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if opts.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/toasts", h.listToasts)
		r.Post("/toasts", h.createToast)
		r.Delete("/toasts", h.dismissAll)
		r.Get("/toasts/stream", h.stream)
		r.Delete("/toasts/{id}", h.dismissToast)

		r.Get("/history", h.listHistory)
		r.Delete("/history", h.clearHistory)

		r.With(contactRL.Limit).Post("/contact", h.submitContact)
	})

	return &Server{handler: r, limiter: contactRL}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close releases background resources.
func (s *Server) Close() {
	s.limiter.Stop()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := logging.Component("server")

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	log.Info().Msg("http server stopped")
	return nil
}
