package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-engine/internal/corpus"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check dataset consistency in the assets directory",
	Long: `Validate checks that the assets directory holds a consistent corpus:
metadata and raw-text families with equal counts, contiguous 1-based
ids in each family, and no zero-length files. Every pipeline stage runs
the same check on startup; this command runs it standalone.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("assets-dir", "assets", "flat directory holding the corpus run")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	assetsDir := stringSetting(cmd, "assets-dir", "corpus.assets_dir")
	if assetsDir == "" {
		assetsDir = "assets"
	}

	mgr, err := corpus.NewManager(assetsDir)
	if err != nil {
		return err
	}

	fmt.Printf("dataset %s is consistent: %d articles\n", mgr.Dir(), len(mgr.IDs()))
	return nil
}
