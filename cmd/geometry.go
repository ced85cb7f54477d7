package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/bookpress/internal/config"
)

var geometryCmd = &cobra.Command{
	Use:   "geometry",
	Short: "Print the computed page and cover geometry",
	Long: `Prints the pixel geometry derived from the current print
configuration: page size, margins, and the cover spread with its
spine for the given interior page count.`,
	RunE: runGeometry,
}

func init() {
	rootCmd.AddCommand(geometryCmd)

	geometryCmd.Flags().Int("pages", 24, "Interior page count used for cover and spine geometry")
	geometryCmd.Flags().Bool("no-bleed", false, "Compute page geometry at trim size without bleed")
}

func runGeometry(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if mustGetBool(cmd, "no-bleed") {
		cfg.Print.Bleed = false
	}

	spec, err := cfg.PrintSpec()
	if err != nil {
		return fmt.Errorf("invalid print configuration: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("invalid print configuration: %w", err)
	}

	pages := mustGetInt(cmd, "pages")
	pageW, pageH := spec.PageSize()
	coverW, coverH := spec.CoverSize(pages)
	spine := spec.SpineWidthPx(pages)

	fmt.Printf("Trim size:   %.3f x %.3f in at %d DPI\n", spec.TrimWidthIn, spec.TrimHeightIn, spec.DPI)
	fmt.Printf("Page:        %d x %d px (bleed: %v)\n", pageW, pageH, spec.Bleed)
	fmt.Printf("Margin:      %d px (%.3f in)\n", spec.MarginPx(), spec.MarginIn)
	fmt.Printf("Text panel:  %v\n", spec.PanelRect())
	fmt.Printf("Cover:       %d x %d px for %d pages\n", coverW, coverH, pages)
	if spine > 0 {
		fmt.Printf("Spine:       %d px\n", spine)
	} else {
		fmt.Printf("Spine:       none (below %d pages)\n", spec.SpinePageThreshold)
	}
	return nil
}
