// Package http wires the API handlers into a chi router and runs the
// HTTP server with graceful shutdown.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/starfox1230/memorize/internal/logging"
	"github.com/starfox1230/memorize/internal/server/config"
	"github.com/starfox1230/memorize/internal/server/http/handlers"
	"github.com/starfox1230/memorize/internal/server/http/middleware"
)

// Server is the HTTP front of the service.
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     logging.Logger
}

// NewServer builds a Server with all routes and middleware attached.
func NewServer(cfg *config.Config, handler *handlers.APIHandler, logger logging.Logger) *Server {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics())

	router.Get("/", handler.Root)
	router.Post("/generate-audio", handler.GenerateAudio)
	router.Post("/upload-audio", handler.UploadAudio)
	router.Get("/audios", handler.ListAudios)
	router.Get("/download-audio", handler.DownloadAudio)
	router.Delete("/delete-audio", handler.DeleteAudio)

	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.EndpointAddr,
			Handler: router,
		},
		config: cfg,
		logger: logger,
	}
}

// Run starts the server and blocks until ctx is cancelled, then shuts the
// server down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "shutting down http server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info(ctx, "http server stopped")
	return nil
}
