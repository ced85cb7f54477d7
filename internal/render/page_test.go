package render

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/kozaktomas/bookpress/internal/layout"
)

// testSpec returns a small, fast spec for render tests. Geometry is
// scaled down so pages stay cheap to fill.
func testSpec() layout.PrintSpec {
	spec := layout.DefaultPrintSpec()
	spec.DPI = 30 // 259x263 pages instead of 2588x2625
	return spec
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	fonts, err := NewGoFontResolver()
	if err != nil {
		t.Fatalf("failed to create font resolver: %v", err)
	}
	r, err := New(testSpec(), fonts)
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	return r
}

func TestNewRejectsInvalidSpec(t *testing.T) {
	fonts, err := NewGoFontResolver()
	if err != nil {
		t.Fatalf("failed to create font resolver: %v", err)
	}

	spec := testSpec()
	spec.DPI = 0
	if _, err := New(spec, fonts); err == nil {
		t.Error("expected error for invalid spec")
	}
	if _, err := New(testSpec(), nil); err == nil {
		t.Error("expected error for nil font resolver")
	}
}

func TestTextPageDimensionsAndBackground(t *testing.T) {
	r := testRenderer(t)
	spec := r.Spec()
	w, h := spec.PageSize()

	for index := 0; index < len(spec.Palette)+1; index++ {
		page := r.TextPage("The cat sat.", index)
		if page.Role != RoleText || page.Index != index {
			t.Errorf("page %d has wrong tags: %s/%d", index, page.Role, page.Index)
		}
		b := page.Image.Bounds()
		if b.Dx() != w || b.Dy() != h {
			t.Errorf("page %d is %dx%d, want %dx%d", index, b.Dx(), b.Dy(), w, h)
		}
		// The corner is outside the panel and must carry the rotated
		// palette background.
		if got := page.Image.RGBAAt(1, 1); got != spec.BackgroundFor(index) {
			t.Errorf("page %d background %v, want %v", index, got, spec.BackgroundFor(index))
		}
	}
}

func TestTextPageDrawsPanelAndText(t *testing.T) {
	r := testRenderer(t)
	spec := r.Spec()
	page := r.TextPage("Hello", 0)

	panel := spec.PanelRect()
	center := image.Point{(panel.Min.X + panel.Max.X) / 2, panel.Min.Y + 2}
	if got := page.Image.RGBAAt(center.X, center.Y); got != spec.PanelFill {
		t.Errorf("panel interior should be panel fill, got %v", got)
	}

	// Some pixel inside the panel must be text-colored.
	found := false
	for y := panel.Min.Y; y < panel.Max.Y && !found; y++ {
		for x := panel.Min.X; x < panel.Max.X; x++ {
			if page.Image.RGBAAt(x, y) == spec.TextColor {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no text pixels found inside the panel")
	}
}

func TestTextPageRoundedCornerStaysBackground(t *testing.T) {
	r := testRenderer(t)
	spec := r.Spec()
	page := r.TextPage("x", 0)

	// The exact panel corner pixel is outside the rounded corner arc,
	// so it keeps the page background.
	panel := spec.PanelRect()
	if got := page.Image.RGBAAt(panel.Min.X, panel.Min.Y); got != spec.BackgroundFor(0) {
		t.Errorf("rounded corner pixel should be background, got %v", got)
	}
}

func TestTextPageOverflowFlag(t *testing.T) {
	r := testRenderer(t)

	if page := r.TextPage("short", 0); page.Overflow {
		t.Error("short text should not overflow")
	}

	long := strings.Repeat("overflowing words keep coming and coming ", 300)
	if page := r.TextPage(long, 0); !page.Overflow {
		t.Error("very long text should report overflow at minimum size")
	}
}

func TestTextPagePageNumber(t *testing.T) {
	spec := testSpec()
	spec.PageNumbers = true
	fonts, err := NewGoFontResolver()
	if err != nil {
		t.Fatalf("failed to create font resolver: %v", err)
	}
	r, err := New(spec, fonts)
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	page := r.TextPage("Hello", 1)
	panel := spec.PanelRect()
	_, h := spec.PageSize()

	// Text-colored pixels must exist below the panel (the number zone).
	found := false
	for y := panel.Max.Y; y < h && !found; y++ {
		for x := 0; x < page.Image.Bounds().Dx(); x++ {
			if page.Image.RGBAAt(x, y) == spec.TextColor {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no page number pixels found below the panel")
	}
}

func TestImagePage(t *testing.T) {
	r := testRenderer(t)
	w, h := r.Spec().PageSize()

	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	c := color.RGBA{R: 120, G: 10, B: 200, A: 255}
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			src.SetRGBA(x, y, c)
		}
	}

	page, err := r.ImagePage(src, 3)
	if err != nil {
		t.Fatalf("ImagePage failed: %v", err)
	}
	if page.Role != RoleIllustration || page.Index != 3 {
		t.Errorf("wrong tags: %s/%d", page.Role, page.Index)
	}
	b := page.Image.Bounds()
	if b.Dx() != w || b.Dy() != h {
		t.Errorf("image page is %dx%d, want %dx%d", b.Dx(), b.Dy(), w, h)
	}
	if got := page.Image.RGBAAt(w/2, h/2); got != c {
		t.Errorf("illustration center pixel %v, want %v", got, c)
	}
}

func TestFillRoundedRectDegeneratesToRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	c := color.RGBA{R: 255, A: 255}
	fillRoundedRect(img, image.Rect(2, 2, 18, 18), 0, c)
	if img.RGBAAt(2, 2) != c || img.RGBAAt(17, 17) != c {
		t.Error("zero radius should fill the full rectangle")
	}
}
