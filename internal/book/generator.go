package book

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
)

// Generator drives book generation over a books directory: load,
// assemble, write output documents. One Generator handles any number
// of books sequentially; the parallelism lives inside the assembler.
type Generator struct {
	assembler *Assembler
	booksDir  string
}

// NewGenerator creates a generator for a books directory.
func NewGenerator(assembler *Assembler, booksDir string) *Generator {
	return &Generator{assembler: assembler, booksDir: booksDir}
}

// BookResult reports the outcome of one book in a batch run.
type BookResult struct {
	Name         string
	InteriorPath string
	CoverPath    string
	Warnings     []string
	Err          error
}

// Skipped reports whether the book failed on a missing asset rather
// than a rendering or serialization problem.
func (r BookResult) Skipped() bool {
	return errors.Is(r.Err, ErrMissingStory) ||
		errors.Is(r.Err, ErrMissingCover) ||
		errors.Is(r.Err, ErrMissingIllustration) ||
		errors.Is(r.Err, ErrNoParagraphs)
}

// GenerateBook generates one book folder and writes
// <name>_interior.pdf and <name>_cover.pdf next to its assets. Output
// files are written only after both documents rendered successfully.
func (g *Generator) GenerateBook(ctx context.Context, name string, opts AssembleOptions) (BookResult, error) {
	result := BookResult{Name: name}
	dir := filepath.Join(g.booksDir, name)

	b, err := LoadBook(dir)
	if err != nil {
		result.Err = err
		return result, err
	}

	output, err := g.assembler.Assemble(ctx, b, opts)
	if err != nil {
		result.Err = err
		return result, err
	}
	result.Warnings = output.Warnings

	interiorPath := filepath.Join(dir, name+"_interior.pdf")
	coverPath := filepath.Join(dir, name+"_cover.pdf")
	if err := os.WriteFile(interiorPath, output.Interior, 0o644); err != nil {
		result.Err = fmt.Errorf("failed to write interior document: %w", err)
		return result, result.Err
	}
	if err := os.WriteFile(coverPath, output.Cover, 0o644); err != nil {
		result.Err = fmt.Errorf("failed to write cover document: %w", err)
		return result, result.Err
	}

	result.InteriorPath = interiorPath
	result.CoverPath = coverPath
	return result, nil
}

// GenerateAll generates every book folder under the books directory.
// A failed book is reported and skipped; the batch continues. Only a
// cancelled context stops the run early.
func (g *Generator) GenerateAll(ctx context.Context, opts AssembleOptions) ([]BookResult, error) {
	names, err := ListBooks(g.booksDir)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(names),
		progressbar.OptionSetDescription("Generating books"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("books"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	results := make([]BookResult, 0, len(names))
	for _, name := range names {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		result, _ := g.GenerateBook(ctx, name, opts)
		results = append(results, result)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return results, nil
}
