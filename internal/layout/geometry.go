// Package layout implements the page-layout engine for picture books:
// print geometry, shrink-to-fit text wrapping, and aspect-preserving
// image cropping. Everything in this package is pure computation over
// an immutable PrintSpec; rendering and I/O live elsewhere.
package layout

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// PrintSpec describes the physical print configuration of a book.
// All components receive the spec explicitly; there is no package-level
// default, so concurrent books with different specs cannot race.
type PrintSpec struct {
	TrimWidthIn  float64 // final page width after cutting, inches
	TrimHeightIn float64 // final page height after cutting, inches

	Bleed         bool    // whether bleed allowance is added to the page
	BleedWidthIn  float64 // extra width when bleed is on
	BleedHeightIn float64 // extra height when bleed is on (book-block trimming usually needs more)

	DPI             int
	MarginIn        float64 // text safety margin on all sides
	MinSafeMarginIn float64 // margin below this is a configuration error

	MaxFontSize     int     // largest candidate body font size, px
	MinFontSize     int     // smallest candidate; guaranteed fallback
	FontSizeStep    int     // decrement between candidates
	LineSpacingFrac float64 // inter-line spacing as a fraction of font size

	Palette   []color.RGBA // text page backgrounds, rotated by page index
	TextColor color.RGBA
	PanelFill color.RGBA

	PanelRadiusIn  float64 // text panel corner radius
	PanelPaddingIn float64 // padding between panel edge and text

	PageNumbers        bool
	PageNumberFontSize int

	// Spine width grows linearly with interior page count. Below the
	// threshold the book is saddle-stitched and has no printable spine.
	SpineSlopeInPerPage float64
	SpinePageThreshold  int

	CoverBleedIn float64 // bleed on the outer edges of the cover spread
}

// DefaultPrintSpec returns the 8.5x8.5in square picture-book configuration
// at 300 DPI.
func DefaultPrintSpec() PrintSpec {
	return PrintSpec{
		TrimWidthIn:   8.5,
		TrimHeightIn:  8.5,
		Bleed:         true,
		BleedWidthIn:  0.125,
		BleedHeightIn: 0.25,

		DPI:             300,
		MarginIn:        0.333,
		MinSafeMarginIn: 0.25,

		MaxFontSize:     100,
		MinFontSize:     24,
		FontSizeStep:    2,
		LineSpacingFrac: 0.10,

		Palette: []color.RGBA{
			{R: 0xFD, G: 0xF6, B: 0xE3, A: 0xFF}, // cream
			{R: 0xE3, G: 0xF2, B: 0xFD, A: 0xFF}, // sky
			{R: 0xFD, G: 0xE8, B: 0xE3, A: 0xFF}, // peach
			{R: 0xE8, G: 0xFD, B: 0xE3, A: 0xFF}, // mint
		},
		TextColor: color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xFF},
		PanelFill: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},

		PanelRadiusIn:  0.133,
		PanelPaddingIn: 0.2,

		PageNumbers:        false,
		PageNumberFontSize: 28,

		SpineSlopeInPerPage: 0.002252,
		SpinePageThreshold:  100,
		CoverBleedIn:        0.125,
	}
}

// Validate checks the spec for configuration errors. It must be called
// before any rendering; a failure here is a setup problem, not a runtime
// condition, and aborts before any page is produced.
func (s PrintSpec) Validate() error {
	if s.DPI <= 0 {
		return fmt.Errorf("print spec: DPI must be positive, got %d", s.DPI)
	}
	if s.TrimWidthIn <= 0 || s.TrimHeightIn <= 0 {
		return fmt.Errorf("print spec: trim size must be positive, got %.3fx%.3fin", s.TrimWidthIn, s.TrimHeightIn)
	}
	if s.MarginIn < s.MinSafeMarginIn {
		return fmt.Errorf("print spec: margin %.3fin is below the safety minimum %.3fin", s.MarginIn, s.MinSafeMarginIn)
	}
	if s.MinFontSize <= 0 || s.MaxFontSize < s.MinFontSize {
		return fmt.Errorf("print spec: font size bounds [%d, %d] are invalid", s.MinFontSize, s.MaxFontSize)
	}
	if s.FontSizeStep <= 0 {
		return fmt.Errorf("print spec: font size step must be positive, got %d", s.FontSizeStep)
	}
	if s.LineSpacingFrac < 0 || s.LineSpacingFrac >= 1 {
		return fmt.Errorf("print spec: line spacing fraction %.2f out of range [0, 1)", s.LineSpacingFrac)
	}
	if len(s.Palette) == 0 {
		return fmt.Errorf("print spec: background palette is empty")
	}
	return nil
}

// Px converts inches to pixels at the spec resolution.
func (s PrintSpec) Px(in float64) int {
	return int(math.Round(in * float64(s.DPI)))
}

// PageSize returns the interior page dimensions in pixels, including
// bleed allowance when enabled.
func (s PrintSpec) PageSize() (w, h int) {
	wIn, hIn := s.TrimWidthIn, s.TrimHeightIn
	if s.Bleed {
		wIn += s.BleedWidthIn
		hIn += s.BleedHeightIn
	}
	return s.Px(wIn), s.Px(hIn)
}

// MarginPx returns the text safety margin in pixels.
func (s PrintSpec) MarginPx() int {
	return s.Px(s.MarginIn)
}

// PanelRect returns the text panel rectangle: the page inset by the
// margin on all sides. When page numbers are enabled the bottom inset
// grows to keep the number baseline clear of the panel.
func (s PrintSpec) PanelRect() image.Rectangle {
	w, h := s.PageSize()
	m := s.MarginPx()
	bottom := m
	if s.PageNumbers {
		bottom += 2 * s.PageNumberFontSize
	}
	return image.Rect(m, m, w-m, h-bottom)
}

// FontSizes returns the body font candidates in descending order. The
// last element is always MinFontSize so a fallback size exists even when
// the step does not land on it exactly.
func (s PrintSpec) FontSizes() []int {
	var sizes []int
	for size := s.MaxFontSize; size > s.MinFontSize; size -= s.FontSizeStep {
		sizes = append(sizes, size)
	}
	return append(sizes, s.MinFontSize)
}

// SpineWidthPx returns the printable spine width for a book with the
// given interior page count. Below the page threshold there is no spine.
func (s PrintSpec) SpineWidthPx(pageCount int) int {
	if pageCount < s.SpinePageThreshold {
		return 0
	}
	return s.Px(s.SpineSlopeInPerPage * float64(pageCount))
}

// CoverSize returns the wraparound cover spread dimensions in pixels:
// back cover + spine + front cover wide, one trim height tall, with
// cover bleed on every outer edge. Print services specify this spread
// independently of interior page math, so it uses trim size directly.
func (s PrintSpec) CoverSize(pageCount int) (w, h int) {
	w = s.Px(2*s.TrimWidthIn+2*s.CoverBleedIn) + s.SpineWidthPx(pageCount)
	h = s.Px(s.TrimHeightIn + 2*s.CoverBleedIn)
	return w, h
}

// CoverHalfSize returns the dimensions of one cover half (front or back)
// excluding the spine strip.
func (s PrintSpec) CoverHalfSize(pageCount int) (w, h int) {
	cw, ch := s.CoverSize(pageCount)
	return (cw - s.SpineWidthPx(pageCount)) / 2, ch
}

// BackgroundFor returns the background color for a page, rotating
// through the palette by page index.
func (s PrintSpec) BackgroundFor(pageIndex int) color.RGBA {
	return s.Palette[pageIndex%len(s.Palette)]
}
