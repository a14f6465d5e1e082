package infrastructure

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"sensormesh/pkg/domain"
	"sensormesh/pkg/logger"
	"sensormesh/pkg/middleware"
)

// MetricsServer serves /metrics and /health for one station.
type MetricsServer struct {
	addr      string
	collector domain.MetricsCollector
	server    *http.Server
	logger    zerolog.Logger
	mu        sync.RWMutex
}

func NewMetricsServer(addr string, collector domain.MetricsCollector) *MetricsServer {
	return &MetricsServer{
		addr:      addr,
		collector: collector,
		logger:    logger.ComponentLogger("metrics-server"),
	}
}

func (s *MetricsServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(domain.DefaultMetricsPath, promhttp.HandlerFor(s.collector.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc(domain.DefaultHealthPath, s.healthHandler)

	handler := middleware.ChainMiddleware(
		middleware.RecoveryMiddleware(s.logger),
		middleware.TimeoutMiddleware(domain.DefaultTimeout),
	)(mux)

	server := &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadTimeout:       domain.DefaultReadTimeout,
		WriteTimeout:      domain.DefaultWriteTimeout,
		ReadHeaderTimeout: domain.DefaultHeaderTimeout,
		IdleTimeout:       domain.DefaultIdleTimeout,
	}

	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	go func() {
		s.logger.Info().Str("address", s.addr).Msg("metrics server starting")
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	return nil
}

func (s *MetricsServer) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	server := s.server
	s.mu.RUnlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
