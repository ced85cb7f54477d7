package book

import (
	"fmt"
	"os"
	"path/filepath"
)

// Summary describes a book folder without decoding its images, cheap
// enough for listings.
type Summary struct {
	Name              string `json:"name"`
	Title             string `json:"title"`
	HasStory          bool   `json:"has_story"`
	ParagraphCount    int    `json:"paragraph_count"`
	InteriorPageCount int    `json:"interior_page_count"`
	HasCover          bool   `json:"has_cover"`
	HasBackCover      bool   `json:"has_back_cover"`
	MissingPages      []int  `json:"missing_pages,omitempty"`
	InteriorDocument  bool   `json:"interior_document"`
	CoverDocument     bool   `json:"cover_document"`
}

// Complete reports whether every required asset is present.
func (s *Summary) Complete() bool {
	return s.HasStory && s.HasCover && s.ParagraphCount > 0 && len(s.MissingPages) == 0
}

// Inspect summarizes one book folder: story, assets, and whether the
// output documents already exist.
func Inspect(dir string) (*Summary, error) {
	name := filepath.Base(dir)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("failed to inspect book %s: %w", name, err)
	}

	summary := &Summary{Name: name, Title: name}

	if meta, err := loadMetadata(filepath.Join(dir, metadataFile)); err == nil && meta != nil && meta.Title != "" {
		summary.Title = meta.Title
	}

	if text, err := loadStory(filepath.Join(dir, storyFile)); err == nil {
		summary.HasStory = true
		summary.ParagraphCount = len(SplitParagraphs(text))
		summary.InteriorPageCount = 2 * summary.ParagraphCount
	}

	images := filepath.Join(dir, imagesDir)
	summary.HasCover = imageExists(images, "cover")
	summary.HasBackCover = imageExists(images, "back")
	for i := 1; i <= summary.ParagraphCount; i++ {
		if !imageExists(images, fmt.Sprintf("page%d", i)) {
			summary.MissingPages = append(summary.MissingPages, i)
		}
	}

	summary.InteriorDocument = fileExists(filepath.Join(dir, name+"_interior.pdf"))
	summary.CoverDocument = fileExists(filepath.Join(dir, name+"_cover.pdf"))
	return summary, nil
}

func imageExists(dir, base string) bool {
	for _, ext := range imageExtensions {
		if fileExists(filepath.Join(dir, base+ext)) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
