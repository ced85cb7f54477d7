package web

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/bookpress/internal/web/handlers"
	"github.com/kozaktomas/bookpress/internal/web/static"
)

func (s *Server) setupRoutes() {
	booksHandler := handlers.NewBooksHandler(s.config.BooksDir, s.spec)
	generateHandler := handlers.NewGenerateHandler(s.generator, s.jobManager)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Books
		r.Get("/books", booksHandler.List)
		r.Get("/books/{name}", booksHandler.Get)
		r.Get("/books/{name}/documents/{kind}", booksHandler.Download)

		// Generate (long-running render jobs)
		r.Post("/generate", generateHandler.Start)
		r.Get("/generate/{jobId}", generateHandler.Status)
		r.Get("/generate/{jobId}/events", generateHandler.Events)
		r.Delete("/generate/{jobId}", generateHandler.Cancel)
	})

	// Serve static files for frontend
	s.router.Get("/*", s.serveStatic)
}

// serveStatic serves the embedded frontend assets.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if !static.HasDist() {
		http.NotFound(w, r)
		return
	}

	fs := static.GetFileSystem()
	path := r.URL.Path
	if path == "/" {
		path = "/index.html"
	}

	f, err := fs.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil || stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	contentType := "application/octet-stream"
	switch {
	case strings.HasSuffix(path, ".html"):
		contentType = "text/html; charset=utf-8"
	case strings.HasSuffix(path, ".css"):
		contentType = "text/css; charset=utf-8"
	case strings.HasSuffix(path, ".js"):
		contentType = "application/javascript; charset=utf-8"
	case strings.HasSuffix(path, ".json"):
		contentType = "application/json"
	case strings.HasSuffix(path, ".svg"):
		contentType = "image/svg+xml"
	case strings.HasSuffix(path, ".png"):
		contentType = "image/png"
	case strings.HasSuffix(path, ".ico"):
		contentType = "image/x-icon"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, f)
}
