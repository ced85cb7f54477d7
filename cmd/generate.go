package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/bookpress/internal/book"
	"github.com/kozaktomas/bookpress/internal/config"
	"github.com/kozaktomas/bookpress/internal/render"
)

var generateCmd = &cobra.Command{
	Use:   "generate [book-name]",
	Short: "Render book folders into print-ready PDF documents",
	Long: `Renders one book folder (or every folder under the books directory
when no name is given) into two PDF documents: the interior with
alternating illustration and text pages, and the wraparound cover.

Books missing required assets are reported and skipped; the batch
continues with the remaining folders.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Int("concurrency", 0, "Number of pages rendered in parallel (0 = default)")
	generateCmd.Flags().String("books-dir", "", "Books directory (overrides BOOKPRESS_BOOKS_DIR)")
	generateCmd.Flags().Bool("page-numbers", false, "Draw page numbers on text pages")
	generateCmd.Flags().Bool("no-bleed", false, "Render pages at trim size without bleed")
}

// newGenerator builds the render pipeline from config plus command flags.
func newGenerator(cmd *cobra.Command) (*book.Generator, error) {
	cfg := config.Load()

	if dir := mustGetString(cmd, "books-dir"); dir != "" {
		cfg.BooksDir = dir
	}
	if mustGetBool(cmd, "page-numbers") {
		cfg.Print.PageNumbers = true
	}
	if mustGetBool(cmd, "no-bleed") {
		cfg.Print.Bleed = false
	}

	spec, err := cfg.PrintSpec()
	if err != nil {
		return nil, fmt.Errorf("invalid print configuration: %w", err)
	}
	fonts, err := render.NewGoFontResolver()
	if err != nil {
		return nil, fmt.Errorf("loading fonts: %w", err)
	}
	renderer, err := render.New(spec, fonts)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	return book.NewGenerator(book.NewAssembler(renderer), cfg.BooksDir), nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	generator, err := newGenerator(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	opts := book.AssembleOptions{
		Concurrency: mustGetInt(cmd, "concurrency"),
	}

	if len(args) == 1 {
		result, err := generator.GenerateBook(ctx, args[0], opts)
		if err != nil {
			return fmt.Errorf("failed to generate book %s: %w", args[0], err)
		}
		reportResult(result)
		return nil
	}

	results, err := generator.GenerateAll(ctx, opts)
	if err != nil {
		return fmt.Errorf("batch generation stopped: %w", err)
	}

	generated, skipped, failed := 0, 0, 0
	for _, result := range results {
		switch {
		case result.Err == nil:
			generated++
		case result.Skipped():
			skipped++
			fmt.Printf("Skipped %s: %v\n", result.Name, result.Err)
		default:
			failed++
			fmt.Printf("Failed %s: %v\n", result.Name, result.Err)
		}
		for _, warning := range result.Warnings {
			fmt.Printf("Warning (%s): %s\n", result.Name, warning)
		}
	}
	fmt.Printf("Generated %d books (%d skipped, %d failed)\n", generated, skipped, failed)
	return nil
}

func reportResult(result book.BookResult) {
	fmt.Printf("Interior: %s\n", result.InteriorPath)
	fmt.Printf("Cover:    %s\n", result.CoverPath)
	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
}
