// Package server exposes the transcription pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tonypowl/AutoSheetify/internal/auth"
	"github.com/tonypowl/AutoSheetify/internal/pipeline"
	"github.com/tonypowl/AutoSheetify/internal/publish"
	"github.com/tonypowl/AutoSheetify/internal/storage"
)

// Config holds server configuration and the assembled collaborators.
type Config struct {
	Port      int
	Origins   []string
	OnRender  bool
	Store     *storage.Store
	Verifier  auth.TokenVerifier
	Pipeline  pipelineRunner
	Publisher *publish.Publisher

	// SweepTTL enables the periodic artifact sweep when positive.
	SweepTTL time.Duration
}

type pipelineRunner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Output, error)
}

// Server is the HTTP server
type Server struct {
	config Config
	router *chi.Mux
	logger *slog.Logger
}

// New creates a new server
func New(cfg Config) *Server {
	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.config.Origins, s.config.OnRender))

	r.Get("/health", s.handleHealth)

	// Generated artifacts, served by basename
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.config.Store.Dir))))

	// Authenticated API
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.config.Verifier))
		r.Post("/transcribe", s.handleTranscribe)
		r.Get("/history", s.handleHistory)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", s.config.Port),
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		// Transcription holds the connection for the full model run.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	stopSweep := s.startSweeper()
	defer stopSweep()

	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		s.logger.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	s.logger.Info("server starting", slog.Int("port", s.config.Port))

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	<-done
	return nil
}

// startSweeper launches the artifact retention sweep when a TTL is
// configured. Without one, artifacts are retained forever.
func (s *Server) startSweeper() func() {
	if s.config.SweepTTL <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(s.config.SweepTTL / 2)
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				removed, err := s.config.Store.Sweep(s.config.SweepTTL)
				if err != nil {
					s.logger.Error("artifact sweep failed", slog.Any("error", err))
					continue
				}
				if removed > 0 {
					s.logger.Info("artifact sweep", slog.Int("removed", removed))
				}
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stop)
	}
}
