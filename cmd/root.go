package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bookpress",
	Short: "A CLI tool for rendering print-ready picture books",
	Long: `Bookpress turns book folders (a story text file plus illustration
images) into print-ready PDF documents: a square interior with
alternating illustration and text pages, and a wraparound cover
spread sized for the page count.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
