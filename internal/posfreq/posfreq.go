// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package posfreq recomputes per-article part-of-speech histograms from
// persisted annotations, updates article metadata, and delegates chart
// rendering to an external visualizer.
package posfreq

import (
	"fmt"
	"io"

	"github.com/pdiddy/corpus-engine/internal/annotate"
	"github.com/pdiddy/corpus-engine/internal/corpus"
	"github.com/pdiddy/corpus-engine/pkg/conllu"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// Visualizer renders an article's POS histogram to an image file.
// Rendering itself is an external concern; the pipeline only hands over
// the histogram and the destination path.
type Visualizer interface {
	Render(art *types.Article, path string) error
}

// BatchResult holds the outcome of a posfreq run.
type BatchResult struct {
	Updated int
	Failed  int
}

// Total returns the total number of articles processed.
func (r BatchResult) Total() int {
	return r.Updated + r.Failed
}

// HasFailures reports whether any articles failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Pipeline computes POS histograms over a validated corpus.
type Pipeline struct {
	mgr      *corpus.Manager
	provider annotate.Provider
	viz      Visualizer // nil disables rendering
}

// New creates the pipeline. Pass a nil visualizer to skip chart rendering.
func New(mgr *corpus.Manager, provider annotate.Provider, viz Visualizer) *Pipeline {
	return &Pipeline{mgr: mgr, provider: provider, viz: viz}
}

// Run processes every article: reload metadata, load the persisted
// annotation, count POS tags, rewrite metadata, render the chart.
// A zero-length or unreadable artifact fails that article only; the
// rest of the corpus completes.
func (p *Pipeline) Run(w io.Writer) (BatchResult, error) {
	dir := p.mgr.Dir()
	var result BatchResult

	for _, id := range p.mgr.IDs() {
		art := p.mgr.Articles()[id]

		if err := art.ReadMeta(dir); err != nil {
			fmt.Fprintf(w, "failed:  article %d (%v)\n", id, err)
			result.Failed++
			continue
		}

		doc, err := p.provider.Load(art)
		if err != nil {
			fmt.Fprintf(w, "failed:  article %d (%v)\n", id, err)
			result.Failed++
			continue
		}

		art.Meta.POSFrequencies = CountFrequencies(doc)
		if err := art.WriteMeta(dir); err != nil {
			fmt.Fprintf(w, "failed:  article %d (%v)\n", id, err)
			result.Failed++
			continue
		}

		if p.viz != nil {
			if err := p.viz.Render(art, art.ImagePath(dir)); err != nil {
				fmt.Fprintf(w, "failed:  article %d (rendering: %v)\n", id, err)
				result.Failed++
				continue
			}
		}

		fmt.Fprintf(w, "updated: article %d (%d tags)\n", id, len(art.Meta.POSFrequencies))
		result.Updated++
	}

	fmt.Fprintf(w, "\nBatch summary: %d updated, %d failed (total: %d)\n",
		result.Updated, result.Failed, result.Total())
	return result, nil
}

// CountFrequencies builds the UPOS histogram for a whole document. The
// accumulator is fresh per document and summed across every sentence;
// counts never reset between sentences.
func CountFrequencies(doc conllu.Document) map[string]int {
	freq := make(map[string]int)
	for _, sent := range doc.Sentences {
		for _, tok := range sent.Tokens {
			freq[tok.UPOS]++
		}
	}
	return freq
}
