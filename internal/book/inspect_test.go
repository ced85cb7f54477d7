package book

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestInspectCompleteBook(t *testing.T) {
	root := t.TempDir()
	dir := writeTestBook(t, root, "mybook", "One.\n\nTwo.", 2)

	summary, err := Inspect(dir)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if !summary.Complete() {
		t.Errorf("expected a complete book, got %+v", summary)
	}
	if summary.ParagraphCount != 2 || summary.InteriorPageCount != 4 {
		t.Errorf("expected 2 paragraphs / 4 interior pages, got %d/%d",
			summary.ParagraphCount, summary.InteriorPageCount)
	}
	if summary.InteriorDocument || summary.CoverDocument {
		t.Error("no output documents should be reported before generation")
	}
}

func TestInspectReportsMissingAssets(t *testing.T) {
	root := t.TempDir()
	dir := writeTestBook(t, root, "partial", "One.\n\nTwo.\n\nThree.", 1)

	summary, err := Inspect(dir)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if summary.Complete() {
		t.Error("book with missing illustrations should not be complete")
	}
	if !reflect.DeepEqual(summary.MissingPages, []int{2, 3}) {
		t.Errorf("expected missing pages [2 3], got %v", summary.MissingPages)
	}
}

func TestInspectSeesOutputDocuments(t *testing.T) {
	root := t.TempDir()
	dir := writeTestBook(t, root, "done", "One.", 1)
	for _, name := range []string{"done_interior.pdf", "done_cover.pdf"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-"), 0o644); err != nil {
			t.Fatalf("failed to write document: %v", err)
		}
	}

	summary, err := Inspect(dir)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if !summary.InteriorDocument || !summary.CoverDocument {
		t.Error("existing output documents should be reported")
	}
}

func TestInspectMissingFolder(t *testing.T) {
	if _, err := Inspect(filepath.Join(t.TempDir(), "ghost")); err == nil {
		t.Error("expected error for a missing book folder")
	}
}
