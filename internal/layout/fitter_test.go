package layout

import (
	"image"
	"reflect"
	"strings"
	"testing"
)

// charMeasurer approximates a proportional font: every rune is 0.6em
// wide except spaces at 0.3em. Line height is 1.2em.
type charMeasurer struct{}

func (charMeasurer) TextWidth(size int, s string) int {
	w := 0
	for _, r := range s {
		if r == ' ' {
			w += size * 3 / 10
		} else {
			w += size * 6 / 10
		}
	}
	return w
}

func (charMeasurer) LineHeight(size int) int {
	return size * 12 / 10
}

func TestWrapTextGreedy(t *testing.T) {
	m := charMeasurer{}
	// At size 10 each char is 6px; "aaa bbb" is 18+3+18 = 39px.
	lines := WrapText("aaa bbb ccc", 10, 40, m)
	want := []string{"aaa bbb", "ccc"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("expected %v, got %v", want, lines)
	}
}

func TestWrapTextPreservesBlankLines(t *testing.T) {
	m := charMeasurer{}
	lines := WrapText("A\n\nB", 10, 1000, m)
	want := []string{"A", "", "B"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("expected %v, got %v", want, lines)
	}
}

func TestWrapTextLongWordOverflows(t *testing.T) {
	m := charMeasurer{}
	word := strings.Repeat("x", 50) // 300px at size 10, far wider than 40px
	lines := WrapText("a "+word+" b", 10, 40, m)
	want := []string{"a", word, "b"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("oversized word must land alone on its line: got %v", lines)
	}
}

func TestWrapTextCollapsesInnerWhitespace(t *testing.T) {
	m := charMeasurer{}
	lines := WrapText("a   b", 10, 1000, m)
	if !reflect.DeepEqual(lines, []string{"a b"}) {
		t.Errorf("expected single normalized line, got %v", lines)
	}
}

func TestFitTextPicksLargestFittingSize(t *testing.T) {
	m := charMeasurer{}
	sizes := []int{40, 30, 20, 10}
	// Rect tall enough for one 30px line (36px) but not a 40px line (48px).
	rect := image.Rect(0, 0, 1000, 40)

	result := FitText("hello", rect, sizes, 0.1, m)
	if result.Size != 30 {
		t.Errorf("expected size 30, got %d", result.Size)
	}
	if result.Overflow {
		t.Error("fit at a non-minimum candidate must not report overflow")
	}
	if result.TotalHeight > rect.Dy() {
		t.Errorf("total height %d exceeds rect height %d", result.TotalHeight, rect.Dy())
	}
}

func TestFitTextFallsBackToMinimum(t *testing.T) {
	m := charMeasurer{}
	sizes := []int{40, 30, 20, 10}
	rect := image.Rect(0, 0, 100, 5) // nothing fits a 5px tall rect

	result := FitText("hello world", rect, sizes, 0.1, m)
	if result.Size != 10 {
		t.Errorf("expected fallback to smallest size 10, got %d", result.Size)
	}
	if !result.Overflow {
		t.Error("expected overflow to be reported at fallback size")
	}
}

func TestFitTextMonotonicInHeight(t *testing.T) {
	m := charMeasurer{}
	sizes := []int{40, 36, 32, 28, 24, 20, 16, 12}
	text := "the quick brown fox jumps over the lazy dog and keeps on running"

	prev := sizes[0] + 1
	for height := 400; height >= 20; height -= 20 {
		rect := image.Rect(0, 0, 300, height)
		result := FitText(text, rect, sizes, 0.1, m)
		if result.Size > prev {
			t.Fatalf("shrinking the rect to %dpx grew the font from %d to %d", height, prev, result.Size)
		}
		prev = result.Size
	}
}

func TestFitTextTotalHeightFormula(t *testing.T) {
	m := charMeasurer{}
	rect := image.Rect(0, 0, 60, 1000)
	result := FitText("aaa bbb ccc", rect, []int{10}, 0.2, m)

	want := result.LineHeight*len(result.Lines) + result.Spacing*(len(result.Lines)-1)
	if result.TotalHeight != want {
		t.Errorf("total height %d does not match formula %d", result.TotalHeight, want)
	}
}
