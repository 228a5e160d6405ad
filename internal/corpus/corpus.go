// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus validates a corpus dataset directory and loads it into
// an id-keyed article storage. A dataset is a flat directory of
// `<id>_raw.txt` and `<id>_meta.json` files whose ids must form the
// exact set {1..N} for both families, with no empty files.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pdiddy/corpus-engine/pkg/types"
)

// Dataset-level faults. Any of these aborts the run: no partial corpus
// is ever returned.
var (
	// ErrPathNotFound means the dataset path does not exist.
	ErrPathNotFound = errors.New("dataset path does not exist")

	// ErrNotADirectory means the dataset path is not a directory.
	ErrNotADirectory = errors.New("dataset path is not a directory")

	// ErrEmptyDataset means the dataset directory has no entries.
	ErrEmptyDataset = errors.New("dataset directory is empty")
)

// InconsistentDatasetError reports a violated dataset invariant:
// mismatched meta/raw counts, non-contiguous ids, or an empty file.
// Detail names the specific violation, including the offending ids.
type InconsistentDatasetError struct {
	Detail string
}

func (e *InconsistentDatasetError) Error() string {
	return "inconsistent dataset: " + e.Detail
}

// Manager owns the validated id → article mapping for one dataset
// directory. Construction runs the full validation pass; an invalid
// dataset never yields a Manager.
type Manager struct {
	dir     string
	storage map[int]*types.Article
}

// NewManager validates the dataset at dir and loads every raw article.
func NewManager(dir string) (*Manager, error) {
	m := &Manager{dir: dir, storage: make(map[int]*types.Article)}
	if err := m.validate(); err != nil {
		return nil, err
	}
	if err := m.scan(); err != nil {
		return nil, err
	}
	return m, nil
}

// Dir returns the dataset directory the manager was built from.
func (m *Manager) Dir() string {
	return m.dir
}

// Articles returns the id → article storage. Ids form the exact set
// {1..N}; callers iterate with IDs for deterministic order.
func (m *Manager) Articles() map[int]*types.Article {
	return m.storage
}

// IDs returns all article ids in ascending order.
func (m *Manager) IDs() []int {
	ids := make([]int, 0, len(m.storage))
	for id := range m.storage {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// validate checks the dataset invariants. It classifies entries into the
// meta and raw families by filename suffix, then requires equal family
// cardinalities, exact {1..N} id sets per family, and no zero-length file.
func (m *Manager) validate() error {
	info, err := os.Stat(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, m.dir)
		}
		return fmt.Errorf("inspecting dataset path %s: %w", m.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, m.dir)
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("reading dataset directory %s: %w", m.dir, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyDataset, m.dir)
	}

	var meta, raw []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, types.MetaSuffix):
			meta = append(meta, name)
		case strings.HasSuffix(name, types.RawSuffix):
			raw = append(raw, name)
		}
	}

	if len(meta) != len(raw) {
		return &InconsistentDatasetError{
			Detail: fmt.Sprintf("meta and raw file counts differ: %d != %d", len(meta), len(raw)),
		}
	}

	if err := checkIDSet("meta", meta); err != nil {
		return err
	}
	if err := checkIDSet("raw", raw); err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, types.MetaSuffix) && !strings.HasSuffix(name, types.RawSuffix) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", name, err)
		}
		if fi.Size() == 0 {
			return &InconsistentDatasetError{
				Detail: fmt.Sprintf("file %s is empty", name),
			}
		}
	}

	return nil
}

// checkIDSet requires the numeric prefixes of names to be exactly
// {1..len(names)}. Set equality, not count equality: gaps and
// duplicates are caught even when counts happen to match.
func checkIDSet(family string, names []string) error {
	seen := make(map[int]bool, len(names))
	var duplicates []int
	for _, name := range names {
		id, ok := types.ArticleIDFromFilename(name)
		if !ok {
			return &InconsistentDatasetError{
				Detail: fmt.Sprintf("%s file %s has no numeric id prefix", family, name),
			}
		}
		if seen[id] {
			duplicates = append(duplicates, id)
		}
		seen[id] = true
	}

	var missing, stray []int
	for want := 1; want <= len(names); want++ {
		if !seen[want] {
			missing = append(missing, want)
		}
	}
	for id := range seen {
		if id < 1 || id > len(names) {
			stray = append(stray, id)
		}
	}
	sort.Ints(missing)
	sort.Ints(stray)

	if len(missing) > 0 || len(stray) > 0 || len(duplicates) > 0 {
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, fmt.Sprintf("missing ids %v", missing))
		}
		if len(stray) > 0 {
			parts = append(parts, fmt.Sprintf("out-of-range ids %v", stray))
		}
		if len(duplicates) > 0 {
			parts = append(parts, fmt.Sprintf("duplicate ids %v", duplicates))
		}
		return &InconsistentDatasetError{
			Detail: fmt.Sprintf("%s family ids are not contiguous 1..%d: %s",
				family, len(names), strings.Join(parts, ", ")),
		}
	}

	return nil
}

// scan reads every raw-text file into storage. Validation already
// guaranteed the files exist, are non-empty, and cover {1..N}.
func (m *Manager) scan() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("reading dataset directory %s: %w", m.dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), types.RawSuffix) {
			continue
		}
		id, _ := types.ArticleIDFromFilename(entry.Name())
		art := &types.Article{ID: id}
		data, err := os.ReadFile(art.RawPath(m.dir))
		if err != nil {
			return fmt.Errorf("reading raw text for article %d: %w", id, err)
		}
		art.Text = string(data)
		m.storage[id] = art
	}

	return nil
}
