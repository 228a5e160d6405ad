// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package process implements the text-processing pipeline: one batch
// annotation call over the whole corpus, placeholder stripping, and
// persistence of cleaned text and CoNLL-U artifacts.
package process

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/corpus-engine/internal/annotate"
	"github.com/pdiddy/corpus-engine/internal/corpus"
)

// nbspMarker is the placeholder token the upstream scraper leaves in raw
// text where a non-breaking space appeared in the source markup.
const nbspMarker = "NBSP"

// BatchResult holds the outcome of a processing run.
type BatchResult struct {
	Processed int
	Failed    int
}

// Total returns the total number of articles processed.
func (r BatchResult) Total() int {
	return r.Processed + r.Failed
}

// HasFailures reports whether any articles failed processing.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Pipeline drives annotation of a validated corpus.
type Pipeline struct {
	mgr      *corpus.Manager
	provider annotate.Provider

	// OnArticle, if set, is called after each article completes;
	// the CLI hooks a progress bar here.
	OnArticle func(id int)
}

// New creates the pipeline over a validated corpus and a provider.
func New(mgr *corpus.Manager, provider annotate.Provider) *Pipeline {
	return &Pipeline{mgr: mgr, provider: provider}
}

// Run annotates every article and persists the derived artifacts.
//
// The batch call is made over raw texts in ascending id order, and the
// provider contract guarantees result i corresponds to input i; that
// correspondence is what lets document i be attached to article i. A
// failed batch call aborts the run (nothing can be attached); per-article
// persistence failures are isolated and counted.
func (p *Pipeline) Run(ctx context.Context, w io.Writer) (BatchResult, error) {
	ids := p.mgr.IDs()
	articles := p.mgr.Articles()

	texts := make([]string, len(ids))
	for i, id := range ids {
		texts[i] = articles[id].Text
	}

	docs, err := p.provider.Annotate(ctx, texts)
	if err != nil {
		return BatchResult{}, fmt.Errorf("batch annotation failed: %w", err)
	}
	if len(docs) != len(texts) {
		return BatchResult{}, fmt.Errorf(
			"provider %s violated the batch contract: %d documents for %d texts",
			p.provider.Name(), len(docs), len(texts))
	}

	var result BatchResult
	for i, id := range ids {
		art := articles[id]

		art.CleanedText = strings.ReplaceAll(art.Text, nbspMarker, "")
		if err := art.WriteCleaned(p.mgr.Dir()); err != nil {
			fmt.Fprintf(w, "failed:    article %d (%v)\n", id, err)
			result.Failed++
			continue
		}

		doc := docs[i]
		art.Document = &doc
		if err := p.provider.Persist(art); err != nil {
			fmt.Fprintf(w, "failed:    article %d (%v)\n", id, err)
			result.Failed++
			continue
		}

		fmt.Fprintf(w, "processed: article %d (%d sentences, %d tokens)\n",
			id, len(doc.Sentences), doc.TokenCount())
		result.Processed++

		if p.OnArticle != nil {
			p.OnArticle(id)
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d processed, %d failed (total: %d)\n",
		result.Processed, result.Failed, result.Total())
	return result, nil
}
