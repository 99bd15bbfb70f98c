package web

import (
	"context"
	"net/http"
	"time"

	"github.com/worklane/worklane/internal/config"

	"github.com/rs/zerolog"
)

type Server struct {
	config  *config.Config
	handler *Handler
	server  *http.Server
	logger  zerolog.Logger
}

func NewServer(cfg *config.Config, handler *Handler, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	handler.SetupRoutes(mux)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		config:  cfg,
		handler: handler,
		server:  httpServer,
		logger:  logger.With().Str("component", "web").Logger(),
	}
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("starting web server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down web server")
	return s.server.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return s.server.Addr
}
