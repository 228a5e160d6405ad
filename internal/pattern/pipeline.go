// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/corpus-engine/internal/annotate"
	"github.com/pdiddy/corpus-engine/internal/corpus"
)

// ArticleMatches maps a sentence index to the match trees found in that
// sentence. Sentences without matches carry no entry.
type ArticleMatches map[int][]*TreeNode

// BatchResult holds the outcome of a pattern-search run.
type BatchResult struct {
	Searched         int
	Failed           int
	SkippedSentences int
	Matches          int
}

// Total returns the total number of articles processed.
func (r BatchResult) Total() int {
	return r.Searched + r.Failed
}

// HasFailures reports whether any articles failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Pipeline searches the annotated corpus for a structural pattern.
type Pipeline struct {
	mgr      *corpus.Manager
	provider annotate.Provider
	pat      Pattern
}

// New creates the pipeline for one pattern.
func New(mgr *corpus.Manager, provider annotate.Provider, pat Pattern) *Pipeline {
	return &Pipeline{mgr: mgr, provider: provider, pat: pat}
}

// Run searches every article and writes the full match mapping to a
// single JSON artifact at outputFile: article id → sentence index →
// match trees. Graph construction and matching are pure functions of
// the persisted annotation, so repeated runs produce identical output.
//
// An unreadable or empty annotation artifact fails that article only.
// A sentence violating the single-root tree invariant is reported and
// skipped; the rest of the document is still searched.
func (p *Pipeline) Run(w io.Writer, outputFile string) (BatchResult, error) {
	var result BatchResult
	found := make(map[int]ArticleMatches, len(p.mgr.IDs()))

	for _, id := range p.mgr.IDs() {
		art := p.mgr.Articles()[id]

		doc, err := p.provider.Load(art)
		if err != nil {
			fmt.Fprintf(w, "failed:   article %d (%v)\n", id, err)
			result.Failed++
			continue
		}

		matches := make(ArticleMatches)
		for idx, sent := range doc.Sentences {
			g := BuildGraph(sent)
			if err := g.Validate(); err != nil {
				fmt.Fprintf(w, "skipping: article %d sentence %d (%v)\n", id, idx, err)
				result.SkippedSentences++
				continue
			}
			if trees := g.Find(p.pat); len(trees) > 0 {
				matches[idx] = trees
				result.Matches += len(trees)
			}
		}

		found[id] = matches
		fmt.Fprintf(w, "searched: article %d (%d matching sentences)\n", id, len(matches))
		result.Searched++
	}

	if err := writeMatches(outputFile, found); err != nil {
		return result, err
	}

	fmt.Fprintf(w, "\nBatch summary: %d searched, %d failed, %d sentences skipped, %d matches (total: %d)\n",
		result.Searched, result.Failed, result.SkippedSentences, result.Matches, result.Total())
	return result, nil
}

func writeMatches(path string, found map[int]ArticleMatches) error {
	data, err := json.MarshalIndent(found, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling pattern matches: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing pattern matches to %s: %w", path, err)
	}
	return nil
}
