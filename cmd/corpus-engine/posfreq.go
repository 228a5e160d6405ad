package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-engine/internal/annotate"
	"github.com/pdiddy/corpus-engine/internal/container"
	"github.com/pdiddy/corpus-engine/internal/corpus"
	"github.com/pdiddy/corpus-engine/internal/posfreq"
	"github.com/pdiddy/corpus-engine/internal/visualize"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

var posfreqCmd = &cobra.Command{
	Use:   "posfreq",
	Short: "Compute part-of-speech frequencies per article",
	Long: `Posfreq reads each article's persisted annotation, counts part-of-speech
tags across all of its sentences, and writes the histogram back into the
article's metadata record. With --visualize it also renders a histogram
image per article through a plotter container.`,
	RunE: runPosFreq,
}

func init() {
	posfreqCmd.Flags().String("assets-dir", "assets", "flat directory holding the corpus run")
	posfreqCmd.Flags().String("backend", "", "artifact family to read: udpipe or stanza (default udpipe)")
	posfreqCmd.Flags().Bool("visualize", false, "render histogram images through the plotter container")
	posfreqCmd.Flags().String("plotter-image", "", "plotter container image (default "+visualize.DefaultImage+")")

	rootCmd.AddCommand(posfreqCmd)
}

func runPosFreq(cmd *cobra.Command, args []string) error {
	assetsDir := stringSetting(cmd, "assets-dir", "corpus.assets_dir")
	if assetsDir == "" {
		assetsDir = "assets"
	}
	backend := stringSetting(cmd, "backend", "annotation.backend")
	if backend == "" {
		backend = string(types.BackendUDPipe)
	}

	mgr, err := corpus.NewManager(assetsDir)
	if err != nil {
		return err
	}

	reader := annotate.NewReader(assetsDir, types.AnnotationBackend(backend))

	var viz posfreq.Visualizer
	if doViz, _ := cmd.Flags().GetBool("visualize"); doViz {
		image := stringSetting(cmd, "plotter-image", "visualize.image")
		rt, err := container.DetectRuntime()
		if err != nil {
			return err
		}
		plotter, err := visualize.NewPlotter(rt, image)
		if err != nil {
			return err
		}
		viz = plotter
	}

	result, err := posfreq.New(mgr, reader, viz).Run(os.Stdout)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d article(s) failed frequency counting", result.Failed)
	}
	return nil
}
