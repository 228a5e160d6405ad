// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotate

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/corpus-engine/internal/container"
	"github.com/pdiddy/corpus-engine/pkg/conllu"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

const imageStanza = "stanza-conllu:latest"

// StanzaProvider annotates texts by piping them through a stanza
// container image that writes CoNLL-U to stdout. It depends on a
// container.Runtime (docker or podman) injected at construction time.
type StanzaProvider struct {
	artifactStore

	runtime container.Runtime
	model   string
}

// NewStanzaProvider creates the container-backed provider. It verifies
// that the stanza image exists locally before returning.
func NewStanzaProvider(rt container.Runtime, cfg types.AnnotationConfig) (*StanzaProvider, error) {
	if err := rt.ImageExists(imageStanza); err != nil {
		return nil, fmt.Errorf("stanza image not available in %s: %w", rt.Name(), err)
	}
	return &StanzaProvider{
		artifactStore: artifactStore{dir: cfg.AssetsDir, name: string(types.BackendStanza)},
		runtime:       rt,
		model:         cfg.Model,
	}, nil
}

// Name identifies the backend.
func (p *StanzaProvider) Name() string { return string(types.BackendStanza) }

// Annotate runs one container per text, in input order, and parses the
// CoNLL-U each run writes to stdout.
func (p *StanzaProvider) Annotate(ctx context.Context, texts []string) ([]conllu.Document, error) {
	var args []string
	if p.model != "" {
		args = append(args, "--model", p.model)
	}

	docs := make([]conllu.Document, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var out bytes.Buffer
		if err := p.runtime.Run(imageStanza, args, strings.NewReader(text), &out); err != nil {
			return nil, fmt.Errorf("annotating text %d with stanza: %w", i+1, err)
		}
		if out.Len() == 0 {
			return nil, fmt.Errorf("stanza produced empty output for text %d", i+1)
		}

		doc, err := conllu.Parse(out.String())
		if err != nil {
			return nil, fmt.Errorf("parsing stanza output for text %d: %w", i+1, err)
		}
		docs[i] = doc
	}
	return docs, nil
}
