package render

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/kozaktomas/bookpress/internal/layout"
)

// PageRole tags what a rendered page contains.
type PageRole string

// Page roles in an assembled interior.
const (
	RoleIllustration PageRole = "illustration"
	RoleText         PageRole = "text"
)

// Page is a single rendered interior page. Pages are immutable once
// rendered; Index is the 0-based interior position used for palette
// rotation and page numbering.
type Page struct {
	Image *image.RGBA
	Role  PageRole
	Index int

	// Overflow is set when the page text did not fit even at the
	// smallest font size and was rendered with accepted overflow.
	Overflow bool
}

// Renderer renders pages for one print spec. It carries no mutable
// state, so a single Renderer may serve concurrent page renders.
type Renderer struct {
	spec     layout.PrintSpec
	fonts    FontResolver
	measurer faceMeasurer
}

// New creates a renderer, failing fast on an invalid spec.
func New(spec layout.PrintSpec, fonts FontResolver) (*Renderer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if fonts == nil {
		return nil, fmt.Errorf("renderer: font resolver is required")
	}
	return &Renderer{spec: spec, fonts: fonts, measurer: faceMeasurer{fonts: fonts}}, nil
}

// Spec returns the print spec the renderer was built with.
func (r *Renderer) Spec() layout.PrintSpec {
	return r.spec
}

// TextPage renders a paragraph onto a palette background with a rounded
// panel. Text is fitted by shrinking through the spec's font candidates
// and centered both ways inside the panel interior.
func (r *Renderer) TextPage(text string, pageIndex int) *Page {
	w, h := r.spec.PageSize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), r.spec.BackgroundFor(pageIndex))

	panel := r.spec.PanelRect()
	radius := r.spec.Px(r.spec.PanelRadiusIn)
	fillRoundedRect(img, panel, radius, r.spec.PanelFill)

	padding := r.spec.Px(r.spec.PanelPaddingIn)
	interior := panel.Inset(padding)

	fit := layout.FitText(text, interior, r.spec.FontSizes(), r.spec.LineSpacingFrac, r.measurer)
	r.drawFittedText(img, interior, fit)

	if r.spec.PageNumbers {
		r.drawPageNumber(img, pageIndex)
	}

	return &Page{Image: img, Role: RoleText, Index: pageIndex, Overflow: fit.Overflow}
}

// ImagePage renders an illustration edge to edge via center-crop-to-fill.
func (r *Renderer) ImagePage(src image.Image, pageIndex int) (*Page, error) {
	w, h := r.spec.PageSize()
	img, err := layout.FillCrop(src, w, h)
	if err != nil {
		return nil, fmt.Errorf("illustration page %d: %w", pageIndex+1, err)
	}
	return &Page{Image: img, Role: RoleIllustration, Index: pageIndex}, nil
}

// drawFittedText draws fit lines centered inside rect: the block is
// vertically centered using the fitted total height, each line
// horizontally centered on its own measured width. Blank lines advance
// the cursor without drawing.
func (r *Renderer) drawFittedText(dst *image.RGBA, rect image.Rectangle, fit layout.FitResult) {
	face := r.fonts.Face(fit.Size)
	ascent := face.Metrics().Ascent.Ceil()
	y := rect.Min.Y + (rect.Dy()-fit.TotalHeight)/2

	for _, line := range fit.Lines {
		if line != "" {
			width := r.measurer.TextWidth(fit.Size, line)
			x := rect.Min.X + (rect.Dx()-width)/2
			drawString(dst, face, line, x, y+ascent, r.spec.TextColor)
		}
		y += fit.LineHeight + fit.Spacing
	}
}

// drawPageNumber centers the 1-based page number between the panel
// bottom and the page edge.
func (r *Renderer) drawPageNumber(dst *image.RGBA, pageIndex int) {
	size := r.spec.PageNumberFontSize
	label := strconv.Itoa(pageIndex + 1)
	face := r.fonts.Face(size)

	_, h := r.spec.PageSize()
	width := r.measurer.TextWidth(size, label)
	x := (dst.Bounds().Dx() - width) / 2
	baseline := h - r.spec.MarginPx()/2
	drawString(dst, face, label, x, baseline, r.spec.TextColor)
}

func drawString(dst *image.RGBA, face font.Face, s string, x, baselineY int, c color.RGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, baselineY),
	}
	d.DrawString(s)
}

// fillRect fills rect with a solid color.
func fillRect(dst *image.RGBA, rect image.Rectangle, c color.RGBA) {
	draw.Draw(dst, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// fillRoundedRect fills rect with rounded corners of the given radius.
// The body is three axis-aligned rectangles plus four quarter discs.
func fillRoundedRect(dst *image.RGBA, rect image.Rectangle, radius int, c color.RGBA) {
	if radius <= 0 {
		fillRect(dst, rect, c)
		return
	}
	maxRadius := min(rect.Dx(), rect.Dy()) / 2
	if radius > maxRadius {
		radius = maxRadius
	}

	fillRect(dst, image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y), c)
	fillRect(dst, image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius), c)
	fillRect(dst, image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius), c)

	centers := []image.Point{
		{rect.Min.X + radius, rect.Min.Y + radius},
		{rect.Max.X - radius - 1, rect.Min.Y + radius},
		{rect.Min.X + radius, rect.Max.Y - radius - 1},
		{rect.Max.X - radius - 1, rect.Max.Y - radius - 1},
	}
	rr := radius * radius
	for _, center := range centers {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx*dx+dy*dy <= rr {
					dst.SetRGBA(center.X+dx, center.Y+dy, c)
				}
			}
		}
	}
}
