package handlers

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/bookpress/internal/book"
	"github.com/kozaktomas/bookpress/internal/layout"
)

// BooksHandler serves book folder listings, per-book geometry, and the
// generated documents.
type BooksHandler struct {
	booksDir string
	spec     layout.PrintSpec
}

// NewBooksHandler creates a books handler for a books directory.
func NewBooksHandler(booksDir string, spec layout.PrintSpec) *BooksHandler {
	return &BooksHandler{booksDir: booksDir, spec: spec}
}

// geometryResponse reports the computed print geometry for a book.
type geometryResponse struct {
	PageWidthPx   int `json:"page_width_px"`
	PageHeightPx  int `json:"page_height_px"`
	MarginPx      int `json:"margin_px"`
	SpineWidthPx  int `json:"spine_width_px"`
	CoverWidthPx  int `json:"cover_width_px"`
	CoverHeightPx int `json:"cover_height_px"`
}

type bookDetailResponse struct {
	*book.Summary
	Geometry geometryResponse `json:"geometry"`
}

// List handles GET /api/v1/books.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := book.ListBooks(h.booksDir)
	if err != nil {
		log.Printf("Failed to list books: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list books")
		return
	}

	summaries := make([]*book.Summary, 0, len(names))
	for _, name := range names {
		summary, err := book.Inspect(filepath.Join(h.booksDir, name))
		if err != nil {
			log.Printf("Failed to inspect book %s: %v", sanitizeForLog(name), err)
			continue
		}
		summaries = append(summaries, summary)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"books": summaries,
		"count": len(summaries),
	})
}

// Get handles GET /api/v1/books/{name}.
func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validBookName(name) {
		respondError(w, http.StatusBadRequest, "invalid book name")
		return
	}

	summary, err := book.Inspect(filepath.Join(h.booksDir, name))
	if err != nil {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}

	pageW, pageH := h.spec.PageSize()
	coverW, coverH := h.spec.CoverSize(summary.InteriorPageCount)
	respondJSON(w, http.StatusOK, bookDetailResponse{
		Summary: summary,
		Geometry: geometryResponse{
			PageWidthPx:   pageW,
			PageHeightPx:  pageH,
			MarginPx:      h.spec.MarginPx(),
			SpineWidthPx:  h.spec.SpineWidthPx(summary.InteriorPageCount),
			CoverWidthPx:  coverW,
			CoverHeightPx: coverH,
		},
	})
}

// Download handles GET /api/v1/books/{name}/documents/{kind} for
// kind "interior" or "cover".
func (h *BooksHandler) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	kind := chi.URLParam(r, "kind")
	if !validBookName(name) {
		respondError(w, http.StatusBadRequest, "invalid book name")
		return
	}
	if kind != "interior" && kind != "cover" {
		respondError(w, http.StatusBadRequest, "document kind must be interior or cover")
		return
	}

	path := filepath.Join(h.booksDir, name, name+"_"+kind+".pdf")
	summary, err := book.Inspect(filepath.Join(h.booksDir, name))
	if err != nil {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}
	if (kind == "interior" && !summary.InteriorDocument) || (kind == "cover" && !summary.CoverDocument) {
		respondError(w, http.StatusNotFound, "document not generated yet")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+"_"+kind+`.pdf"`)
	http.ServeFile(w, r, path)
}

// validBookName rejects names that could escape the books directory.
func validBookName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`)
}
