// Package render composes picture-book pages as rasters: palette
// backgrounds, rounded text panels, fitted body text, full-bleed
// illustrations, and the wraparound cover spread.
package render

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/kozaktomas/bookpress/internal/layout"
)

// FontResolver hands out renderable faces at pixel sizes. Font loading
// and platform fallback belong to the resolver, never to the layout
// code; implementations must resolve their font at construction so that
// Face cannot fail afterwards.
type FontResolver interface {
	Face(size int) font.Face
}

// GoFontResolver serves faces from the embedded Go Bold font. Faces are
// cached per size and safe for concurrent use.
type GoFontResolver struct {
	font  *opentype.Font
	mu    sync.Mutex
	faces map[int]font.Face
}

// NewGoFontResolver parses the embedded font. A parse failure here is
// fatal for rendering and surfaces before any page is produced.
func NewGoFontResolver() (*GoFontResolver, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}
	return &GoFontResolver{font: f, faces: make(map[int]font.Face)}, nil
}

// Face returns a face sized in pixels.
func (r *GoFontResolver) Face(size int) font.Face {
	r.mu.Lock()
	defer r.mu.Unlock()
	if face, ok := r.faces[size]; ok {
		return face
	}
	// 72 DPI makes the point size equal the pixel size.
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// The font parsed at construction; sizing cannot fail for it.
		panic(fmt.Sprintf("failed to size embedded font to %dpx: %v", size, err))
	}
	// opentype faces carry internal glyph buffers and are not safe for
	// concurrent use; page renders run in parallel and share this cache.
	locked := &lockedFace{face: face}
	r.faces[size] = locked
	return locked
}

// lockedFace serializes access to a font.Face so one cached face can be
// shared by concurrent page renders.
type lockedFace struct {
	mu   sync.Mutex
	face font.Face
}

func (f *lockedFace) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.Close()
}

func (f *lockedFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.Glyph(dot, r)
}

func (f *lockedFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.GlyphBounds(r)
}

func (f *lockedFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.GlyphAdvance(r)
}

func (f *lockedFace) Kern(r0, r1 rune) fixed.Int26_6 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.Kern(r0, r1)
}

func (f *lockedFace) Metrics() font.Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.Metrics()
}

// faceMeasurer adapts a FontResolver to the layout.Measurer capability
// used by the text fitter.
type faceMeasurer struct {
	fonts FontResolver
}

var _ layout.Measurer = faceMeasurer{}

func (m faceMeasurer) TextWidth(size int, s string) int {
	return font.MeasureString(m.fonts.Face(size), s).Ceil()
}

func (m faceMeasurer) LineHeight(size int) int {
	metrics := m.fonts.Face(size).Metrics()
	return (metrics.Ascent + metrics.Descent).Ceil()
}
