package handlers

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/bookpress/internal/book"
	"github.com/kozaktomas/bookpress/internal/layout"
	"github.com/kozaktomas/bookpress/internal/render"
)

// testSpec returns a low-resolution print spec so handler tests that
// render real pages stay fast.
func testSpec() layout.PrintSpec {
	spec := layout.DefaultPrintSpec()
	spec.DPI = 30
	return spec
}

// testGenerator creates a generator rendering into booksDir.
func testGenerator(t *testing.T, booksDir string) *book.Generator {
	t.Helper()
	fonts, err := render.NewGoFontResolver()
	if err != nil {
		t.Fatalf("failed to load fonts: %v", err)
	}
	renderer, err := render.New(testSpec(), fonts)
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	return book.NewGenerator(book.NewAssembler(renderer), booksDir)
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// writeTestBook creates a complete book folder with N paragraphs.
func writeTestBook(t *testing.T, root, name, story string, paragraphCount int) string {
	t.Helper()
	dir := filepath.Join(root, name)
	images := filepath.Join(dir, "images")
	if err := os.MkdirAll(images, 0o755); err != nil {
		t.Fatalf("failed to create book dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "book_text.txt"), []byte(story), 0o644); err != nil {
		t.Fatalf("failed to write story: %v", err)
	}
	writeTestImage(t, filepath.Join(images, "cover.png"))
	for i := 1; i <= paragraphCount; i++ {
		writeTestImage(t, filepath.Join(images, fmt.Sprintf("page%d.png", i)))
	}
	return dir
}

func writeTestImage(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
}
