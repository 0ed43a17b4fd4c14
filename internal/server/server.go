package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/information-sharing-networks/uploads-apicheck/internal/auth"
	"github.com/information-sharing-networks/uploads-apicheck/internal/config"
	"github.com/information-sharing-networks/uploads-apicheck/internal/database"
	"github.com/information-sharing-networks/uploads-apicheck/internal/server/handlers"
	appmiddleware "github.com/information-sharing-networks/uploads-apicheck/internal/server/middleware"
	"github.com/information-sharing-networks/uploads-apicheck/internal/version"
)

type Server struct {
	store  *database.Store
	tokens *auth.TokenService
	config *config.ServerEnvironment
	logger *slog.Logger
	router *chi.Mux
}

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithNow replaces the clock used to issue and validate tokens
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func NewServer(
	store *database.Store,
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
	opts ...Option,
) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var tokenOpts []auth.Option
	if o.now != nil {
		tokenOpts = append(tokenOpts, auth.WithNow(o.now))
	}

	tokens, err := auth.NewTokenService(cfg.Username, cfg.Password, cfg.TokenSecret, cfg.TokenLifetime, tokenOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	server := &Server{
		store:  store,
		tokens: tokens,
		config: cfg,
		logger: logger,
		router: chi.NewRouter(),
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server, nil
}

// Handler returns the router, e.g. for use with httptest.NewServer
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(appmiddleware.RequestLogging(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(appmiddleware.SecurityHeaders(s.config.Environment))
	s.router.Use(appmiddleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
}

func (s *Server) registerRoutes() {
	s.router.Get("/health/live", handlers.HandleHealth)
	s.router.Get("/health/ready", handlers.HandleReadiness(s.store))
	s.router.Get("/version", handlers.HandleVersion(version.Get()))

	s.router.Get("/ping/", handlers.HandlePing)

	s.router.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequestSizeLimit(s.config.MaxRequestBodyBytes))
		r.Post("/authorize/", handlers.HandleAuthorize(s.tokens))
		r.Post("/api/save_data/", handlers.HandleSaveData(s.tokens, s.store))
	})
}

func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr),
			slog.Duration("token_lifetime", s.tokens.Lifetime()))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

func (s *Server) DatabaseShutdown() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("database close error", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("database connection closed")
}
