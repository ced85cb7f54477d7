package layout

import (
	"image"
	"strings"
)

// Measurer provides text metrics for a proportional font at a given
// pixel size. Implementations are injected by the renderer so the
// fitter never touches font files itself.
type Measurer interface {
	// TextWidth returns the rendered width of s in pixels at the given font size.
	TextWidth(size int, s string) int
	// LineHeight returns the line height (ascent + descent) in pixels.
	LineHeight(size int) int
}

// FitResult is the outcome of fitting a paragraph into a rectangle.
type FitResult struct {
	Lines       []string // wrapped lines; "" is a preserved blank line
	Size        int      // chosen font size
	LineHeight  int
	Spacing     int // pixels between consecutive lines
	TotalHeight int // LineHeight*len(Lines) + Spacing*(len(Lines)-1)
	Overflow    bool // true when even the smallest size did not fit
}

// FitText finds the largest font size from the descending candidates at
// which the wrapped text fits the rectangle height. When no candidate
// fits it settles on the last (smallest) candidate and reports overflow;
// rendering at minimum size with visual overflow is the degrade path,
// not an error.
func FitText(text string, rect image.Rectangle, sizes []int, spacingFrac float64, m Measurer) FitResult {
	var result FitResult
	for i, size := range sizes {
		lines := WrapText(text, size, rect.Dx(), m)
		lineHeight := m.LineHeight(size)
		spacing := int(spacingFrac * float64(size))
		total := lineHeight * len(lines)
		if len(lines) > 1 {
			total += spacing * (len(lines) - 1)
		}
		result = FitResult{
			Lines:       lines,
			Size:        size,
			LineHeight:  lineHeight,
			Spacing:     spacing,
			TotalHeight: total,
		}
		if total <= rect.Dy() {
			return result
		}
		if i == len(sizes)-1 {
			result.Overflow = true
		}
	}
	return result
}

// WrapText splits text into lines no wider than maxWidth at the given
// font size. Explicit newlines are preserved as hard breaks, and an
// empty source line yields one empty output line so paragraph gaps
// survive wrapping. A single word wider than maxWidth is placed alone
// on its line rather than split; the overflow is accepted.
func WrapText(text string, size int, maxWidth int, m Measurer) []string {
	var wrapped []string
	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			wrapped = append(wrapped, "")
			continue
		}
		current := ""
		for _, word := range strings.Fields(raw) {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if m.TextWidth(size, candidate) > maxWidth && current != "" {
				wrapped = append(wrapped, current)
				current = word
				continue
			}
			current = candidate
		}
		if current != "" {
			wrapped = append(wrapped, current)
		}
	}
	return wrapped
}
