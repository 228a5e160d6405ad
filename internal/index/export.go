// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEntry holds one sentence with its article context for export.
type ExportEntry struct {
	ArticleID int            `json:"article_id" yaml:"article_id"`
	SentIndex int            `json:"sent_index" yaml:"sent_index"`
	Text      string         `json:"text" yaml:"text"`
	Article   *ExportArticle `json:"article,omitempty" yaml:"article,omitempty"`
}

// ExportArticle holds the article-level fields included in each entry.
type ExportArticle struct {
	Title  string   `json:"title" yaml:"title"`
	URL    string   `json:"url" yaml:"url"`
	Topics []string `json:"topics,omitempty" yaml:"topics,omitempty"`
}

const exportLimit = 100000

// ExportYAML writes the corpus index to <indexDir>/export.yaml. It
// supports the same filters as Retrieve.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.indexDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the corpus index to <indexDir>/export.json. It
// supports the same filters as Retrieve.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.indexDir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			ArticleID: r.ArticleID,
			SentIndex: r.SentIndex,
			Text:      r.Text,
		}
		if r.Title != "" || r.URL != "" || len(r.Topics) > 0 {
			entries[i].Article = &ExportArticle{
				Title:  r.Title,
				URL:    r.URL,
				Topics: r.Topics,
			}
		}
	}

	return entries, nil
}
