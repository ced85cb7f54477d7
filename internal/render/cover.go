package render

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/kozaktomas/bookpress/internal/layout"
)

// CoverSpread renders the wraparound print cover: back half on the
// left, front half on the right, and for books past the spine threshold
// a rotated title strip straddling the horizontal midpoint. The front
// image is required; a nil back image falls back to a background fill.
func (r *Renderer) CoverSpread(front, back image.Image, title string, pageCount int) (*image.RGBA, error) {
	if front == nil {
		return nil, fmt.Errorf("cover spread: front cover image is required")
	}

	cw, ch := r.spec.CoverSize(pageCount)
	halfW, _ := r.spec.CoverHalfSize(pageCount)
	spineW := r.spec.SpineWidthPx(pageCount)
	spread := image.NewRGBA(image.Rect(0, 0, cw, ch))

	// Integer rounding can leave the two halves and the spine strip a
	// pixel short of the full spread width. Paint the background first so
	// no pixel of a print-ready cover stays transparent.
	fillRect(spread, spread.Bounds(), r.spec.BackgroundFor(0))

	if back != nil {
		backHalf, err := layout.FillCrop(back, halfW, ch)
		if err != nil {
			return nil, fmt.Errorf("cover spread: back half: %w", err)
		}
		draw.Copy(spread, image.Point{}, backHalf, backHalf.Bounds(), draw.Src, nil)
	}

	frontHalf, err := layout.FillCrop(front, halfW, ch)
	if err != nil {
		return nil, fmt.Errorf("cover spread: front half: %w", err)
	}
	// The front half abuts the spine strip; any rounding slack ends up in
	// the right bleed edge, already background-filled.
	draw.Copy(spread, image.Point{X: halfW + spineW}, frontHalf, frontHalf.Bounds(), draw.Src, nil)

	if spineW > 0 && title != "" {
		r.drawSpine(spread, title, halfW, spineW, ch)
	}

	return spread, nil
}

// drawSpine composites the title, rotated 90 degrees, into the spine
// strip between the two cover halves. The text is drawn on a
// transparent strip and alpha-blended over the spread, so glyphs never
// overwrite cover pixels outside the strip.
func (r *Renderer) drawSpine(spread *image.RGBA, title string, left, spineW, spineH int) {
	// The strip is rendered horizontally (spine height becomes the
	// writing width) and rotated as a whole.
	inset := r.spec.MarginPx()
	maxWidth := spineH - 2*inset
	size := r.spineFontSize(title, maxWidth, spineW)

	strip := image.NewRGBA(image.Rect(0, 0, spineH, spineW))
	face := r.fonts.Face(size)
	metrics := face.Metrics()
	textW := r.measurer.TextWidth(size, title)
	x := (spineH - textW) / 2
	baseline := (spineW-(metrics.Ascent+metrics.Descent).Ceil())/2 + metrics.Ascent.Ceil()
	drawString(strip, face, title, x, baseline, r.spec.TextColor)

	rotated := rotate90(strip)
	target := image.Rect(left, 0, left+spineW, spineH)
	draw.Draw(spread, target, rotated, image.Point{}, draw.Over)
}

// spineFontSize picks the largest body candidate whose rendered title
// fits the spine strip both along and across. The smallest candidate is
// the fallback, as for body text.
func (r *Renderer) spineFontSize(title string, maxWidth, spineW int) int {
	sizes := r.spec.FontSizes()
	for _, size := range sizes {
		if r.measurer.TextWidth(size, title) <= maxWidth && r.measurer.LineHeight(size) <= spineW {
			return size
		}
	}
	return sizes[len(sizes)-1]
}

// rotate90 rotates an image a quarter turn clockwise, so horizontal
// text reads top to bottom.
func rotate90(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetRGBA(h-1-y, x, src.RGBAAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
