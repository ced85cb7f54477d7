// Package book holds the book aggregate, the book-folder loader, and
// the assembler that turns a book into its two output documents.
package book

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// Sentinel errors for missing required assets. A book failing one of
// these is skipped; other books in a batch are unaffected.
var (
	ErrMissingStory        = errors.New("missing story text")
	ErrMissingCover        = errors.New("missing cover image")
	ErrMissingIllustration = errors.New("missing illustration image")
	ErrNoParagraphs        = errors.New("story has no paragraphs")
)

// Book is the fully loaded input for one generation run: decoded
// images and story paragraphs. It is constructed once, consumed by the
// assembler, and never mutated.
type Book struct {
	Name  string // folder slug, used for output file names
	Title string

	Paragraphs    []string
	Cover         image.Image
	Back          image.Image   // optional back cover
	Illustrations []image.Image // one per paragraph, same order
}

// Validate checks that every required asset is present before any page
// is rendered.
func (b *Book) Validate() error {
	if b.Cover == nil {
		return ErrMissingCover
	}
	if len(b.Paragraphs) == 0 {
		return ErrNoParagraphs
	}
	for i, p := range b.Paragraphs {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("paragraph %d is empty: %w", i+1, ErrNoParagraphs)
		}
	}
	if len(b.Illustrations) != len(b.Paragraphs) {
		return fmt.Errorf("%d paragraphs but %d illustrations: %w",
			len(b.Paragraphs), len(b.Illustrations), ErrMissingIllustration)
	}
	for i, img := range b.Illustrations {
		if img == nil {
			return fmt.Errorf("page %d: %w", i+1, ErrMissingIllustration)
		}
	}
	return nil
}

// InteriorPageCount returns the number of interior pages: an
// illustration page and a text page per paragraph. The cover is not an
// interior page.
func (b *Book) InteriorPageCount() int {
	return 2 * len(b.Paragraphs)
}
