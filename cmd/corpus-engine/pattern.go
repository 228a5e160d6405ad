package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-engine/internal/annotate"
	"github.com/pdiddy/corpus-engine/internal/corpus"
	"github.com/pdiddy/corpus-engine/internal/pattern"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Search dependency graphs for a head-relation-child pattern",
	Long: `Pattern builds a dependency graph for every parsed sentence and searches
it for edges matching root tag, relation label, and child tag. Each hit
yields the root node plus the matched child's full subtree. Results for
the whole corpus are written to a single JSON artifact.`,
	RunE: runPattern,
}

func init() {
	patternCmd.Flags().String("assets-dir", "assets", "flat directory holding the corpus run")
	patternCmd.Flags().String("backend", "", "artifact family to read: udpipe or stanza (default udpipe)")
	patternCmd.Flags().String("root", "", "UPOS tag required on the head node (e.g. VERB)")
	patternCmd.Flags().String("rel", "", "dependency relation label (e.g. nsubj)")
	patternCmd.Flags().String("child", "", "UPOS tag required on the dependent node (e.g. NOUN)")
	patternCmd.Flags().String("output", "", "matches JSON path (default <assets-dir>/pattern_matches.json)")

	rootCmd.AddCommand(patternCmd)
}

func runPattern(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	rel, _ := cmd.Flags().GetString("rel")
	child, _ := cmd.Flags().GetString("child")
	if root == "" || rel == "" || child == "" {
		return fmt.Errorf("pattern requires --root, --rel, and --child")
	}

	assetsDir := stringSetting(cmd, "assets-dir", "corpus.assets_dir")
	if assetsDir == "" {
		assetsDir = "assets"
	}
	backend := stringSetting(cmd, "backend", "annotation.backend")
	if backend == "" {
		backend = string(types.BackendUDPipe)
	}
	output := stringSetting(cmd, "output", "pattern.output_file")
	if output == "" {
		output = filepath.Join(assetsDir, "pattern_matches.json")
	}

	mgr, err := corpus.NewManager(assetsDir)
	if err != nil {
		return err
	}

	reader := annotate.NewReader(assetsDir, types.AnnotationBackend(backend))
	pat := pattern.Pattern{Root: root, Rel: rel, Child: child}

	result, err := pattern.New(mgr, reader, pat).Run(os.Stdout, output)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d article(s) failed pattern search", result.Failed)
	}
	return nil
}
