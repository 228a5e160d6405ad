package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-engine/internal/annotate"
	"github.com/pdiddy/corpus-engine/internal/container"
	"github.com/pdiddy/corpus-engine/internal/corpus"
	"github.com/pdiddy/corpus-engine/internal/process"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultUserAgent = "corpus-engine/0.1"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Annotate the corpus with a morphosyntactic backend",
	Long: `Annotate validates the assets directory, strips placeholder markers from
the raw texts, sends the whole corpus to the selected backend in one
batch, and persists cleaned text plus per-article CoNLL-U artifacts.
Supports UDPipe (REST) and stanza (container-based) backends.`,
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().String("assets-dir", "assets", "flat directory holding the corpus run")
	annotateCmd.Flags().String("backend", "", "annotation backend: udpipe or stanza (default udpipe)")
	annotateCmd.Flags().String("endpoint", "", "UDPipe /process endpoint URL (udpipe backend)")
	annotateCmd.Flags().String("model", "", "annotation model identifier")
	annotateCmd.Flags().String("token", "", "bearer token for hosted UDPipe deployments")
	annotateCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 120s)")
	annotateCmd.Flags().Int("max-retries", 3, "retry attempts for rate-limited requests")
	annotateCmd.Flags().Bool("progress", false, "show a progress bar instead of per-article lines")

	rootCmd.AddCommand(annotateCmd)
}

// annotationConfig assembles the stage config from flags, viper keys and
// loaded secrets.
func annotationConfig(cmd *cobra.Command) types.AnnotationConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxRetries, _ := cmd.Flags().GetInt("max-retries")

	backend := stringSetting(cmd, "backend", "annotation.backend")
	if backend == "" {
		backend = string(types.BackendUDPipe)
	}

	assetsDir := stringSetting(cmd, "assets-dir", "corpus.assets_dir")
	if assetsDir == "" {
		assetsDir = "assets"
	}

	token, _ := cmd.Flags().GetString("token")

	return types.AnnotationConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Backend:    types.AnnotationBackend(backend),
		Endpoint:   stringSetting(cmd, "endpoint", "annotation.endpoint"),
		Model:      stringSetting(cmd, "model", "annotation.model"),
		Token:      secretDefault("udpipe-token", token),
		MaxRetries: maxRetries,
		AssetsDir:  assetsDir,
	}
}

// newProvider constructs the backend named in the config.
func newProvider(cfg types.AnnotationConfig) (annotate.Provider, error) {
	switch cfg.Backend {
	case types.BackendUDPipe:
		client := &http.Client{Timeout: cfg.Timeout}
		return annotate.NewUDPipeProvider(client, cfg)
	case types.BackendStanza:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return annotate.NewStanzaProvider(rt, cfg)
	default:
		return nil, fmt.Errorf("unknown backend %q: use udpipe or stanza", cfg.Backend)
	}
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	cfg := annotationConfig(cmd)

	mgr, err := corpus.NewManager(cfg.AssetsDir)
	if err != nil {
		return err
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	pipeline := process.New(mgr, provider)

	showProgress, _ := cmd.Flags().GetBool("progress")
	out := io.Writer(os.Stdout)
	if showProgress {
		// Per-article lines would fight the bar for the terminal.
		out = io.Discard
		uiprogress.Start()
		bar := uiprogress.AddBar(len(mgr.IDs()))
		bar.AppendCompleted()
		bar.PrependElapsed()
		pipeline.OnArticle = func(int) { bar.Incr() }
		defer uiprogress.Stop()
	}

	result, err := pipeline.Run(context.Background(), out)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d article(s) failed annotation", result.Failed)
	}
	return nil
}
