package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/bookpress/internal/book"
	"github.com/kozaktomas/bookpress/internal/config"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [book-name]",
	Short: "Report the readiness of book folders",
	Long: `Checks which assets each book folder has (story text, cover,
illustrations, generated documents) without rendering anything.
With no arguments every folder under the books directory is listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().String("books-dir", "", "Books directory (overrides BOOKPRESS_BOOKS_DIR)")
	inspectCmd.Flags().Bool("json", false, "Output as JSON")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if dir := mustGetString(cmd, "books-dir"); dir != "" {
		cfg.BooksDir = dir
	}

	var names []string
	if len(args) == 1 {
		names = args
	} else {
		var err error
		names, err = book.ListBooks(cfg.BooksDir)
		if err != nil {
			return err
		}
	}

	summaries := make([]*book.Summary, 0, len(names))
	for _, name := range names {
		summary, err := book.Inspect(filepath.Join(cfg.BooksDir, name))
		if err != nil {
			return fmt.Errorf("failed to inspect book %s: %w", name, err)
		}
		summaries = append(summaries, summary)
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	for _, s := range summaries {
		status := "ready"
		if !s.Complete() {
			status = "incomplete"
		}
		fmt.Printf("%s (%s)\n", s.Name, status)
		fmt.Printf("  Title:         %s\n", s.Title)
		fmt.Printf("  Paragraphs:    %d (%d interior pages)\n", s.ParagraphCount, s.InteriorPageCount)
		fmt.Printf("  Cover:         %v (back cover: %v)\n", s.HasCover, s.HasBackCover)
		if len(s.MissingPages) > 0 {
			fmt.Printf("  Missing pages: %v\n", s.MissingPages)
		}
		fmt.Printf("  Documents:     interior=%v cover=%v\n", s.InteriorDocument, s.CoverDocument)
	}
	return nil
}
