// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate defines the annotation capability the pipelines
// consume and its interchangeable backends. The pipelines never know
// how tags or relations are computed; they see documents, and artifact
// persistence keyed by provider name.
package annotate

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pdiddy/corpus-engine/pkg/conllu"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// ErrEmptyArtifact means an on-disk `_conllu` artifact has zero length.
// Fatal for that article's downstream step only.
var ErrEmptyArtifact = errors.New("annotation artifact is empty")

// Provider is the annotation capability boundary. Annotate is
// order-preserving: result index i corresponds to input text i. A
// backend that reorders results silently corrupts every downstream
// attachment, so this is an explicit contract, not an implementation
// detail.
type Provider interface {
	// Name identifies the backend ("udpipe", "stanza"); it keys the
	// `<id>_<name>_conllu` artifact family.
	Name() string

	// Annotate batch-annotates texts, one document per input, in input order.
	Annotate(ctx context.Context, texts []string) ([]conllu.Document, error)

	// Persist writes the article's attached document as a CoNLL-U artifact.
	Persist(art *types.Article) error

	// Load reads the article's CoNLL-U artifact back into a document.
	Load(art *types.Article) (conllu.Document, error)
}

// artifactStore implements Persist/Load shared by all backends: the
// artifact format is the same CoNLL-U table regardless of who produced it.
type artifactStore struct {
	dir  string
	name string
}

func (s artifactStore) Persist(art *types.Article) error {
	if art.Document == nil {
		return fmt.Errorf("article %d has no attached document", art.ID)
	}
	path := art.ConlluPath(s.dir, s.name)
	if err := os.WriteFile(path, []byte(conllu.Serialize(*art.Document)), 0o644); err != nil {
		return fmt.Errorf("writing annotation artifact for article %d: %w", art.ID, err)
	}
	return nil
}

func (s artifactStore) Load(art *types.Article) (conllu.Document, error) {
	path := art.ConlluPath(s.dir, s.name)
	data, err := os.ReadFile(path)
	if err != nil {
		return conllu.Document{}, fmt.Errorf("reading annotation artifact for article %d: %w", art.ID, err)
	}
	if len(data) == 0 {
		return conllu.Document{}, fmt.Errorf("article %d: %w", art.ID, ErrEmptyArtifact)
	}
	doc, err := conllu.Parse(string(data))
	if err != nil {
		return conllu.Document{}, fmt.Errorf("parsing annotation artifact for article %d: %w", art.ID, err)
	}
	return doc, nil
}
