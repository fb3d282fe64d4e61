package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Clark-Hu/reelscout/internal/config"
	"github.com/Clark-Hu/reelscout/internal/discovery"
	"github.com/Clark-Hu/reelscout/internal/kv"
	"github.com/Clark-Hu/reelscout/internal/metrics"
	"github.com/Clark-Hu/reelscout/internal/recent"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg        config.Config
	aggregator *discovery.Aggregator
	recent     *recent.Book
	health     kv.Pinger
	logger     *log.Logger
	router     chi.Router
	httpSrv    *http.Server
}

// New constructs the HTTP server with base middleware and routes. health may
// be nil when the recent-search backend has nothing to ping.
func New(cfg config.Config, agg *discovery.Aggregator, book *recent.Book, health kv.Pinger, logger *log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	if sentry.CurrentHub().Client() != nil {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:        cfg,
		aggregator: agg,
		recent:     book,
		health:     health,
		logger:     logger,
		router:     r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	s.router.Route("/discover", func(r chi.Router) {
		r.Get("/popular", s.handlePopular)
		r.Get("/trending", s.handleTrending)
		r.Get("/search", s.handleSearch)
		r.Get("/genres", s.handleGenres)
	})
	s.router.Route("/recent-searches", func(r chi.Router) {
		r.Get("/", s.handleListRecent)
		r.Post("/", s.handleRecordRecent)
		r.Delete("/", s.handleClearRecent)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is done or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.health != nil {
		if err := s.health.Ping(ctx); err != nil {
			s.logger.Printf("healthz: backend ping failed: %v", err)
			s.respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Recent-search backend unreachable")
			return
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// metricsMiddleware records every request under its chi route pattern so
// path parameters and unknown paths do not explode label cardinality.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHTTPRequest(route, r.Method, status, time.Since(start))
	})
}
