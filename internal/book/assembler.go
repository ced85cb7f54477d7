package book

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/kozaktomas/bookpress/internal/constants"
	"github.com/kozaktomas/bookpress/internal/render"
)

// ProgressInfo is passed to the optional progress callback as page
// pairs finish rendering.
type ProgressInfo struct {
	Phase   string // "rendering", "assembling"
	Current int
	Total   int
}

// AssembleOptions control one assemble run.
type AssembleOptions struct {
	Concurrency int                // parallel page-pair renders, defaults to constants.DefaultConcurrency
	OnProgress  func(ProgressInfo) // optional, called from worker goroutines
}

// Output holds the two finished documents for a book. Both are
// produced fully in memory; nothing is written to disk until both
// documents exist, so a failed book never leaves partial output.
type Output struct {
	Interior []byte // multi-page interior PDF
	Cover    []byte // single-page cover spread PDF

	// Warnings lists non-fatal degradations, such as paragraphs
	// rendered at minimum font size with accepted overflow.
	Warnings []string
}

// Assembler turns validated books into output documents using a shared
// renderer. Safe for concurrent use across books.
type Assembler struct {
	renderer *render.Renderer
}

// NewAssembler creates an assembler around a renderer.
func NewAssembler(r *render.Renderer) *Assembler {
	return &Assembler{renderer: r}
}

// pairResult carries the two rendered pages of one paragraph.
type pairResult struct {
	index        int
	illustration *render.Page
	text         *render.Page
	err          error
}

// Assemble renders all pages of a book and serializes the interior and
// cover documents. Nothing is returned unless both documents were
// produced, so a failing book yields no partial output.
func (a *Assembler) Assemble(ctx context.Context, b *Book, opts AssembleOptions) (*Output, error) {
	pages, warnings, err := a.RenderPages(ctx, b, opts)
	if err != nil {
		return nil, err
	}

	if opts.OnProgress != nil {
		opts.OnProgress(ProgressInfo{Phase: "assembling", Current: len(b.Paragraphs), Total: len(b.Paragraphs)})
	}

	spec := a.renderer.Spec()
	interior, err := encodePDF(pageImages(pages), spec.DPI)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize interior document: %w", err)
	}

	spread, err := a.renderer.CoverSpread(b.Cover, b.Back, b.Title, b.InteriorPageCount())
	if err != nil {
		return nil, err
	}
	cover, err := encodePDF([]*image.RGBA{spread}, spec.DPI)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize cover document: %w", err)
	}

	return &Output{Interior: interior, Cover: cover, Warnings: warnings}, nil
}

// RenderPages renders the interior page sequence of a book: for each
// paragraph an illustration page followed by a text page. Page pairs
// render concurrently; output order is restored by paragraph index, so
// completion order never affects the sequence. The first rendering
// error cancels the remaining work for this book only.
func (a *Assembler) RenderPages(ctx context.Context, b *Book, opts AssembleOptions) ([]*render.Page, []string, error) {
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrency
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pairs := len(b.Paragraphs)
	results := make(chan pairResult, pairs)
	semaphore := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var done int
	var doneMu sync.Mutex

	reportProgress := func() {
		if opts.OnProgress == nil {
			return
		}
		doneMu.Lock()
		done++
		current := done
		doneMu.Unlock()
		opts.OnProgress(ProgressInfo{Phase: "rendering", Current: current, Total: pairs})
	}

	for i := range b.Paragraphs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				results <- pairResult{index: idx, err: ctx.Err()}
				return
			}

			illustration, err := a.renderer.ImagePage(b.Illustrations[idx], 2*idx)
			if err != nil {
				// Abort the remaining pairs of this book; other books
				// in a batch keep their own contexts.
				cancel()
				results <- pairResult{index: idx, err: err}
				return
			}
			text := a.renderer.TextPage(b.Paragraphs[idx], 2*idx+1)

			results <- pairResult{index: idx, illustration: illustration, text: text}
			reportProgress()
		}(i)
	}

	wg.Wait()
	close(results)

	pages := make([]*render.Page, 2*pairs)
	var warnings []string
	var renderErr error
	for res := range results {
		if res.err != nil {
			// Prefer the root cause over the context errors the
			// cancelled siblings report.
			if renderErr == nil || errors.Is(renderErr, context.Canceled) {
				renderErr = fmt.Errorf("failed to render pages for paragraph %d: %w", res.index+1, res.err)
			}
			continue
		}
		pages[2*res.index] = res.illustration
		pages[2*res.index+1] = res.text
		if res.text.Overflow {
			warnings = append(warnings,
				fmt.Sprintf("paragraph %d does not fit at minimum font size, rendered with overflow", res.index+1))
		}
	}
	if renderErr != nil {
		return nil, nil, renderErr
	}

	return pages, warnings, nil
}

func pageImages(pages []*render.Page) []*image.RGBA {
	images := make([]*image.RGBA, len(pages))
	for i, page := range pages {
		images[i] = page.Image
	}
	return images
}
