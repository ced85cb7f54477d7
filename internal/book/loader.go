package book

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Book folder layout, matching the generator that produces the assets:
//
//	books/<name>/book_text.txt      paragraphs separated by blank lines
//	books/<name>/book.yaml          optional metadata (title)
//	books/<name>/images/cover.jpg   required
//	books/<name>/images/page<N>.jpg one per paragraph, 1-based
//	books/<name>/images/back.jpg    optional
const (
	storyFile    = "book_text.txt"
	metadataFile = "book.yaml"
	imagesDir    = "images"
)

// imageExtensions are tried in order when resolving an image base name.
var imageExtensions = []string{".jpg", ".jpeg", ".png"}

// Metadata is the optional per-book metadata file.
type Metadata struct {
	Title string `yaml:"title"`
}

// ListBooks returns the names of all book folders under booksDir,
// sorted for a stable batch order.
func ListBooks(booksDir string) ([]string, error) {
	entries, err := os.ReadDir(booksDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read books directory %s: %w", booksDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadBook loads and decodes every asset of one book folder. Image
// decoding happens here, before rendering starts, so the rendering
// pipeline never blocks on I/O.
func LoadBook(dir string) (*Book, error) {
	name := filepath.Base(dir)

	text, err := loadStory(filepath.Join(dir, storyFile))
	if err != nil {
		return nil, err
	}
	paragraphs := SplitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil, ErrNoParagraphs
	}

	title := name
	if meta, err := loadMetadata(filepath.Join(dir, metadataFile)); err != nil {
		return nil, err
	} else if meta != nil && meta.Title != "" {
		title = meta.Title
	}

	images := filepath.Join(dir, imagesDir)
	cover, err := loadImage(images, "cover")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCover, err)
	}

	illustrations := make([]image.Image, len(paragraphs))
	for i := range paragraphs {
		img, err := loadImage(images, fmt.Sprintf("page%d", i+1))
		if err != nil {
			return nil, fmt.Errorf("page %d: %w: %v", i+1, ErrMissingIllustration, err)
		}
		illustrations[i] = img
	}

	// The back cover is optional; a decode failure on an existing file
	// is still an error.
	back, err := loadImage(images, "back")
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("back cover: %w", err)
	}

	return &Book{
		Name:          name,
		Title:         title,
		Paragraphs:    paragraphs,
		Cover:         cover,
		Back:          back,
		Illustrations: illustrations,
	}, nil
}

// SplitParagraphs splits story text on blank lines into trimmed,
// non-empty paragraphs. Text is NFC-normalized so wrapping and
// measurement see composed forms regardless of how the story file was
// produced.
func SplitParagraphs(text string) []string {
	text = norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n"))

	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}

func loadStory(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", path, ErrMissingStory)
		}
		return "", fmt.Errorf("failed to read story: %w", err)
	}
	return string(data), nil
}

func loadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &meta, nil
}

// loadImage resolves base against the known extensions and decodes the
// first file that exists. When no candidate exists the underlying
// os.IsNotExist error is returned so optional images can be told apart
// from decode failures.
func loadImage(dir, base string) (image.Image, error) {
	for _, ext := range imageExtensions {
		path := filepath.Join(dir, base+ext)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return img, nil
	}
	return nil, &os.PathError{Op: "open", Path: filepath.Join(dir, base), Err: os.ErrNotExist}
}
