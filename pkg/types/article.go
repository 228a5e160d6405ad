// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/corpus-engine/pkg/conllu"
)

// Meta holds the metadata record stored in the `<id>_meta.json` family.
// POSFrequencies is filled in by the posfreq stage once computed.
type Meta struct {
	ID             int            `json:"id" yaml:"id"`
	URL            string         `json:"url" yaml:"url"`
	Title          string         `json:"title" yaml:"title"`
	Date           string         `json:"date" yaml:"date"`
	Author         []string       `json:"author" yaml:"author"`
	Topics         []string       `json:"topics" yaml:"topics"`
	POSFrequencies map[string]int `json:"pos_frequencies,omitempty" yaml:"pos_frequencies,omitempty"`
}

// Article is one corpus entry. Identity is the 1-based id shared by all
// of its artifact files. Pipelines attach derived artifacts in place:
// the annotate stage fills CleanedText and Document, the posfreq stage
// fills Meta.POSFrequencies.
type Article struct {
	// ID is the 1-based, corpus-contiguous article identifier.
	ID int `json:"id"`

	// Text is the raw article text read from `<id>_raw.txt`.
	Text string `json:"-"`

	// CleanedText is the raw text with placeholder markers stripped.
	CleanedText string `json:"-"`

	// Document is the attached annotation, once the annotate stage ran.
	Document *conllu.Document `json:"-"`

	// Meta is the metadata record from `<id>_meta.json`.
	Meta Meta `json:"meta"`
}

// Artifact filename suffixes for the per-article file families.
const (
	RawSuffix     = "_raw.txt"
	MetaSuffix    = "_meta.json"
	CleanedSuffix = "_cleaned.txt"
	ImageSuffix   = "_image.png"
)

// RawPath returns the raw-text file path for the article under dir.
func (a *Article) RawPath(dir string) string {
	return filepath.Join(dir, strconv.Itoa(a.ID)+RawSuffix)
}

// MetaPath returns the metadata file path for the article under dir.
func (a *Article) MetaPath(dir string) string {
	return filepath.Join(dir, strconv.Itoa(a.ID)+MetaSuffix)
}

// CleanedPath returns the cleaned-text file path for the article under dir.
func (a *Article) CleanedPath(dir string) string {
	return filepath.Join(dir, strconv.Itoa(a.ID)+CleanedSuffix)
}

// ConlluPath returns the per-provider annotation artifact path for the
// article under dir, e.g. `3_udpipe_conllu`.
func (a *Article) ConlluPath(dir, provider string) string {
	return filepath.Join(dir, fmt.Sprintf("%d_%s_conllu", a.ID, provider))
}

// ImagePath returns the POS histogram image path for the article under dir.
func (a *Article) ImagePath(dir string) string {
	return filepath.Join(dir, strconv.Itoa(a.ID)+ImageSuffix)
}

// ReadMeta loads the article's metadata record from dir into a.Meta.
func (a *Article) ReadMeta(dir string) error {
	data, err := os.ReadFile(a.MetaPath(dir))
	if err != nil {
		return fmt.Errorf("reading metadata for article %d: %w", a.ID, err)
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parsing metadata for article %d: %w", a.ID, err)
	}
	a.Meta = m
	return nil
}

// WriteMeta persists the article's metadata record to dir.
func (a *Article) WriteMeta(dir string) error {
	data, err := json.MarshalIndent(a.Meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata for article %d: %w", a.ID, err)
	}
	return os.WriteFile(a.MetaPath(dir), append(data, '\n'), 0o644)
}

// WriteCleaned persists the cleaned text to dir.
func (a *Article) WriteCleaned(dir string) error {
	return os.WriteFile(a.CleanedPath(dir), []byte(a.CleanedText), 0o644)
}

// ArticleIDFromFilename extracts the numeric id prefix from an artifact
// filename such as `12_raw.txt`. The second return value reports whether
// the filename carried a numeric prefix.
func ArticleIDFromFilename(name string) (int, bool) {
	prefix, _, found := strings.Cut(name, "_")
	if !found {
		return 0, false
	}
	id, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return id, true
}
