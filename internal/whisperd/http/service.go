package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sjzar/whisperd/internal/errors"
	"github.com/sjzar/whisperd/internal/whisperd/conf"
	"github.com/sjzar/whisperd/internal/whisperd/runtime"
)

// Service is the HTTP boundary in front of the resident runtime.
type Service struct {
	conf *conf.Config
	rt   *runtime.Runtime

	router *gin.Engine
	server *http.Server
}

// NewService wires the router, middleware and routes.
func NewService(cfg *conf.Config, rt *runtime.Runtime) *Service {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Err(err).Msg("Failed to set trusted proxies")
	}

	// Middleware
	router.Use(
		errors.RecoveryMiddleware(),
		errors.ErrorHandlerMiddleware(),
		requestIDMiddleware(),
		gin.LoggerWithWriter(log.Logger, "/health"),
		corsMiddleware(),
	)

	s := &Service{
		conf:   cfg,
		rt:     rt,
		router: router,
	}

	s.initRouter()
	return s
}

// ListenAndServe blocks serving HTTP until the listener fails or the
// server is stopped.
func (s *Service) ListenAndServe() error {
	s.server = &http.Server{
		Addr:    s.conf.HTTPAddr,
		Handler: s.router,
	}

	log.Info().Msg("Starting HTTP server on " + s.conf.HTTPAddr)
	return s.server.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Service) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Debug().Err(err).Msg("Failed to shutdown HTTP server")
		return nil
	}

	log.Info().Msg("HTTP server stopped")
	return nil
}

// GetRouter exposes the underlying router, mainly for tests.
func (s *Service) GetRouter() *gin.Engine {
	return s.router
}
