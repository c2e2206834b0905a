// Package server exposes root finding, rate estimation and sweeps over
// HTTP with gin.
//
//	GET  /v1/health    liveness
//	GET  /v1/methods   available methods
//	POST /v1/run       one run, optionally with a rate estimate
//	POST /v1/estimate  fit a History
//	POST /v1/sweep     run a sweep spec
//	GET  /metrics      Prometheus
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/njchilds90/gorootfind/config"
	"github.com/njchilds90/gorootfind/sweep"
	"github.com/njchilds90/gorootfind/telemetry"
)

const shutdownGrace = 10 * time.Second

type Server struct {
	cfg     config.ServerConfig
	logger  *slog.Logger
	metrics *telemetry.Metrics
	runner  *sweep.Runner
	router  *gin.Engine
}

// New wires the routes. Metrics are registered on reg and served from it.
func New(cfg config.ServerConfig, logger *slog.Logger, reg *prometheus.Registry) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := telemetry.NewMetrics(reg)
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		runner:  sweep.NewRunner(logger, metrics),
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger), bodyLimit(cfg.MaxBodyBytes))

	v1 := router.Group("/v1")
	{
		v1.GET("/health", s.HandleHealth)
		v1.GET("/methods", s.HandleMethods)
		v1.POST("/run", s.HandleRun)
		v1.POST("/estimate", s.HandleEstimate)
		v1.POST("/sweep", s.HandleSweep)
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	s.router = router
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
