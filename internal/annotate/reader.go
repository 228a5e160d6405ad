// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotate

import (
	"context"
	"fmt"

	"github.com/pdiddy/corpus-engine/pkg/conllu"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// Reader is a load-only Provider over an existing artifact family.
// Stages that consume annotations without producing them (posfreq,
// pattern, index) use it so they never need a live backend.
type Reader struct {
	artifactStore
}

// NewReader creates a Reader for the backend's artifact family under dir.
func NewReader(dir string, backend types.AnnotationBackend) *Reader {
	return &Reader{artifactStore{dir: dir, name: string(backend)}}
}

// Name identifies the artifact family the reader serves.
func (r *Reader) Name() string { return r.name }

// Annotate always fails: a Reader only serves persisted artifacts.
func (r *Reader) Annotate(ctx context.Context, texts []string) ([]conllu.Document, error) {
	return nil, fmt.Errorf("backend %s artifacts are read-only here: run the annotate stage first", r.name)
}
