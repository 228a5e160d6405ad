// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/corpus-engine/internal/annotate"
	"github.com/pdiddy/corpus-engine/internal/corpus"
	"github.com/pdiddy/corpus-engine/internal/index"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the corpus index (build, query, export)",
	Long: `Index manages a local SQLite index built from the annotated corpus.
Use subcommands to ingest annotations, query sentences, or export.`,
}

// --- build subcommand ---

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Ingest annotated articles into the corpus index",
	Long: `Build reads each article's CoNLL-U artifact and metadata, ingests
sentences and tokens into a SQLite database with FTS5 indexing, and
optionally ingests a pattern-matches artifact. Articles whose annotation
is unchanged since the last build are skipped.`,
	RunE: runIndexBuild,
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	cfg, assetsDir, backend := indexConfig(cmd)

	mgr, err := corpus.NewManager(assetsDir)
	if err != nil {
		return err
	}

	store, err := index.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	reader := annotate.NewReader(assetsDir, types.AnnotationBackend(backend))

	summary, err := store.Build(context.Background(), mgr, reader, os.Stdout)
	if err != nil {
		return err
	}

	if matchesFile, _ := cmd.Flags().GetString("matches"); matchesFile != "" {
		if err := store.IngestMatches(context.Background(), matchesFile, os.Stdout); err != nil {
			return err
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d article(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var indexQueryCmd = &cobra.Command{
	Use:   "query [terms]",
	Short: "Query indexed sentences with full-text search and filters",
	Long: `Query searches the corpus index using FTS5 full-text search over
sentence text, token-level filters (lemma, UPOS tag, dependency
relation), or a combination of both. Results include the source
article's title and URL.`,
	RunE: runIndexQuery,
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	cfg, _, _ := indexConfig(cmd)

	store, err := index.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search terms, --lemma, --upos, --deprel, or --article")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []index.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-7s  %-5s  %-60s  %s\n",
		"Rank", "Article", "Sent", "Text", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		text := r.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		title := r.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-7d  %-5d  %-60s  %s\n",
			i+1, r.ArticleID, r.SentIndex, text, title)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the corpus index to YAML or JSON",
	Long: `Export writes the indexed sentences (or a filtered subset) to
export.yaml or export.json in the index directory. Supports the same
filter flags as query for partial exports.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg, _, _ := indexConfig(cmd)
	store, err := index.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.yaml\n", cfg.IndexDir)
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.json\n", cfg.IndexDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func indexConfig(cmd *cobra.Command) (types.IndexConfig, string, string) {
	indexDir := stringSetting(cmd, "index-dir", "index.index_dir")
	if indexDir == "" {
		indexDir = "index"
	}
	assetsDir := stringSetting(cmd, "assets-dir", "corpus.assets_dir")
	if assetsDir == "" {
		assetsDir = "assets"
	}
	backend := stringSetting(cmd, "backend", "annotation.backend")
	if backend == "" {
		backend = string(types.BackendUDPipe)
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	cfg := types.IndexConfig{
		IndexDir:   indexDir,
		MaxResults: maxResults,
	}
	return cfg, assetsDir, backend
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	lemma, _ := cmd.Flags().GetString("lemma")
	upos, _ := cmd.Flags().GetString("upos")
	deprel, _ := cmd.Flags().GetString("deprel")
	articleID, _ := cmd.Flags().GetInt("article")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Query:      queryText,
		Lemma:      lemma,
		UPOS:       upos,
		Deprel:     deprel,
		ArticleID:  articleID,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("index-dir", "index", "directory holding the SQLite database and exports")
	indexCmd.PersistentFlags().String("assets-dir", "assets", "flat directory holding the corpus run")
	indexCmd.PersistentFlags().String("backend", "", "artifact family to index: udpipe or stanza (default udpipe)")
	indexCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Build flags.
	indexBuildCmd.Flags().String("matches", "", "pattern-matches JSON artifact to ingest alongside")

	// Query flags.
	indexQueryCmd.Flags().String("query", "", "full-text search query over sentence text")
	indexQueryCmd.Flags().String("lemma", "", "filter to sentences containing this lemma")
	indexQueryCmd.Flags().String("upos", "", "filter to sentences containing this UPOS tag")
	indexQueryCmd.Flags().String("deprel", "", "filter to sentences containing this relation")
	indexQueryCmd.Flags().Int("article", 0, "filter by article id")
	indexQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	indexExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	indexExportCmd.Flags().String("lemma", "", "filter by lemma for partial export")
	indexExportCmd.Flags().String("upos", "", "filter by UPOS tag for partial export")
	indexExportCmd.Flags().String("deprel", "", "filter by relation for partial export")
	indexExportCmd.Flags().Int("article", 0, "filter by article id for partial export")
	indexExportCmd.Flags().Int("limit", 0, "maximum sentences to export (0 = all)")

	// Wire subcommands.
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexQueryCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
