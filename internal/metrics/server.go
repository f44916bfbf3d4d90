package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"megalodon/internal/config"
	"megalodon/internal/core"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServer exposes /metrics and a /health endpoint that reflects the stream.
type HTTPServer struct {
	Logger *slog.Logger
	Config *config.Config
	Source core.Source

	srv *http.Server
	ln  net.Listener
}

func (s *HTTPServer) Init(context.Context) error {
	s.Logger = s.Logger.With("component", "metrics.HTTPServer")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", s.health)

	s.srv = &http.Server{
		Addr:              s.Config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	return nil
}

func (s *HTTPServer) Run(context.Context) error {
	s.Logger.Info("Starting HTTP server", "addr", s.ln.Addr().String())

	if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *HTTPServer) Addr() string {
	return s.ln.Addr().String()
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	if err := s.Source.HealthCheck(r.Context()); err != nil {
		s.Logger.Warn("Health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
