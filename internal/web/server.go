package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/bookpress/internal/book"
	"github.com/kozaktomas/bookpress/internal/config"
	"github.com/kozaktomas/bookpress/internal/layout"
	"github.com/kozaktomas/bookpress/internal/render"
	"github.com/kozaktomas/bookpress/internal/web/handlers"
	"github.com/kozaktomas/bookpress/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *config.Config
	spec       layout.PrintSpec
	router     *chi.Mux
	httpServer *http.Server
	jobManager *handlers.JobManager
	generator  *book.Generator
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, port int, host string) (*Server, error) {
	spec, err := cfg.PrintSpec()
	if err != nil {
		return nil, fmt.Errorf("invalid print configuration: %w", err)
	}

	fonts, err := render.NewGoFontResolver()
	if err != nil {
		return nil, fmt.Errorf("loading fonts: %w", err)
	}
	renderer, err := render.New(spec, fonts)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	r := chi.NewRouter()

	s := &Server{
		config:     cfg,
		spec:       spec,
		router:     r,
		jobManager: handlers.NewJobManager(),
		generator:  book.NewGenerator(book.NewAssembler(renderer), cfg.BooksDir),
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(5 * time.Minute))
	r.Use(middleware.CORS())
	r.Use(middleware.SecurityHeaders())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // Long timeout for SSE and PDF downloads
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
