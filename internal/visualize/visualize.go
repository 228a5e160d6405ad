// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package visualize delegates POS histogram rendering to an external
// plotter running in a container. The engine hands over the histogram
// as JSON on stdin and stores the PNG the plotter writes to stdout;
// chart drawing itself stays outside the core.
package visualize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/corpus-engine/internal/container"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// DefaultImage is the plotter container image used when none is configured.
const DefaultImage = "pos-plotter:latest"

// plotRequest is the JSON payload piped to the plotter.
type plotRequest struct {
	ArticleID   int            `json:"article_id"`
	Title       string         `json:"title"`
	Frequencies map[string]int `json:"frequencies"`
}

// Plotter renders histograms by piping them through a plotter image.
// It implements posfreq.Visualizer.
type Plotter struct {
	runtime container.Runtime
	image   string
}

// NewPlotter creates a plotter over the given container runtime. It
// verifies that the plotter image exists locally before returning.
func NewPlotter(rt container.Runtime, image string) (*Plotter, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("plotter image not available in %s: %w", rt.Name(), err)
	}
	return &Plotter{runtime: rt, image: image}, nil
}

// Render pipes the article's histogram through the plotter container and
// writes the resulting PNG to path.
func (p *Plotter) Render(art *types.Article, path string) error {
	payload, err := json.Marshal(plotRequest{
		ArticleID:   art.ID,
		Title:       art.Meta.Title,
		Frequencies: art.Meta.POSFrequencies,
	})
	if err != nil {
		return fmt.Errorf("marshaling histogram for article %d: %w", art.ID, err)
	}

	var png bytes.Buffer
	if err := p.runtime.Run(p.image, nil, bytes.NewReader(payload), &png); err != nil {
		return fmt.Errorf("rendering histogram for article %d: %w", art.ID, err)
	}
	if png.Len() == 0 {
		return fmt.Errorf("plotter produced empty output for article %d", art.ID)
	}

	return os.WriteFile(path, png.Bytes(), 0o644)
}
