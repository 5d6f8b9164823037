// Package api serves the dashboard over REST.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TxnLab/stakeview/internal/cache"
	"github.com/TxnLab/stakeview/internal/lib/dashboard"
)

type Server struct {
	Router *chi.Mux

	logger   *slog.Logger
	dash     *dashboard.Dashboard
	registry *cache.Registry
	now      func() time.Time
}

type ServerOptions struct {
	Logger    *slog.Logger
	Dashboard *dashboard.Dashboard
	Registry  *cache.Registry
	// Gatherer backs /metrics, prometheus.DefaultGatherer when nil.
	Gatherer prometheus.Gatherer
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	s := &Server{
		Router:   r,
		logger:   opts.Logger,
		dash:     opts.Dashboard,
		registry: opts.Registry,
		now:      time.Now,
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			s.logger.Warn("error writing health check response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/validators", s.handleValidators)
		r.Get("/validators/{address}", s.handleValidator)
		r.Get("/validators/{address}/apy", s.handleValidatorAPY)
		r.Get("/ranking", s.handleRanking)
		r.Get("/delegators/{address}/rank", s.handleDelegatorRank)
		r.Get("/stats", s.handleStats)
		r.Get("/cache", s.handleCacheStats)
		r.Delete("/cache", s.handleCacheClear)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, http.StatusNotFound, "route not found")
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			s.logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
