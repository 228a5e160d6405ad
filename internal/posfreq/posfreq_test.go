package posfreq

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/corpus-engine/internal/annotate"
	"github.com/pdiddy/corpus-engine/internal/corpus"
	"github.com/pdiddy/corpus-engine/pkg/conllu"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

func TestCountFrequencies(t *testing.T) {
	doc := conllu.Document{Sentences: []conllu.Sentence{
		{Tokens: []conllu.Token{
			{ID: 1, UPOS: "NOUN"},
			{ID: 2, UPOS: "VERB"},
		}},
		{Tokens: []conllu.Token{
			{ID: 1, UPOS: "NOUN"},
			{ID: 2, UPOS: "VERB"},
			{ID: 3, UPOS: "ADV"},
		}},
		{Tokens: []conllu.Token{
			{ID: 1, UPOS: "NOUN"},
		}},
	}}

	freq := CountFrequencies(doc)

	// Counts accumulate over every sentence of the document.
	want := map[string]int{"NOUN": 3, "VERB": 2, "ADV": 1}
	for tag, count := range want {
		if freq[tag] != count {
			t.Errorf("freq[%s] = %d, want %d", tag, freq[tag], count)
		}
	}
	if len(freq) != len(want) {
		t.Errorf("got %d tags, want %d", len(freq), len(want))
	}
}

func TestCountFrequenciesEmptyDocument(t *testing.T) {
	freq := CountFrequencies(conllu.Document{})
	if len(freq) != 0 {
		t.Errorf("got %d tags for empty document, want 0", len(freq))
	}
}

// --- pipeline tests ---

// testCorpus writes a valid dataset with persisted annotations for every
// article except those listed in skipArtifact.
func testCorpus(t *testing.T, n int, skipArtifact ...int) *corpus.Manager {
	t.Helper()
	dir := t.TempDir()

	skip := make(map[int]bool, len(skipArtifact))
	for _, id := range skipArtifact {
		skip[id] = true
	}

	markup := "1\tКошка\tкошка\tNOUN\t_\t_\t2\tnsubj\t_\t_\n" +
		"2\tспит\tспать\tVERB\t_\t_\t0\troot\t_\t_\n\n" +
		"1\tОна\tона\tPRON\t_\t_\t2\tnsubj\t_\t_\n" +
		"2\tспит\tспать\tVERB\t_\t_\t0\troot\t_\t_\n\n"

	for id := 1; id <= n; id++ {
		raw := filepath.Join(dir, fmt.Sprintf("%d_raw.txt", id))
		if err := os.WriteFile(raw, []byte("Кошка спит"), 0o644); err != nil {
			t.Fatal(err)
		}
		meta := filepath.Join(dir, fmt.Sprintf("%d_meta.json", id))
		content := fmt.Sprintf(`{"id": %d, "title": "Статья %d"}`, id, id)
		if err := os.WriteFile(meta, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if !skip[id] {
			artifact := filepath.Join(dir, fmt.Sprintf("%d_udpipe_conllu", id))
			if err := os.WriteFile(artifact, []byte(markup), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}

	mgr, err := corpus.NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	return mgr
}

func TestRunUpdatesMetadata(t *testing.T) {
	mgr := testCorpus(t, 2)
	reader := annotate.NewReader(mgr.Dir(), types.BackendUDPipe)

	var buf strings.Builder
	result, err := New(mgr, reader, nil).Run(&buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Updated != 2 || result.Failed != 0 {
		t.Errorf("result = %+v, want 2 updated", result)
	}

	art := &types.Article{ID: 1}
	if err := art.ReadMeta(mgr.Dir()); err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"NOUN": 1, "VERB": 2, "PRON": 1}
	for tag, count := range want {
		if art.Meta.POSFrequencies[tag] != count {
			t.Errorf("POSFrequencies[%s] = %d, want %d",
				tag, art.Meta.POSFrequencies[tag], count)
		}
	}
}

func TestRunIsolatesMissingArtifacts(t *testing.T) {
	mgr := testCorpus(t, 3, 2)
	reader := annotate.NewReader(mgr.Dir(), types.BackendUDPipe)

	var buf strings.Builder
	result, err := New(mgr, reader, nil).Run(&buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Updated != 2 || result.Failed != 1 {
		t.Errorf("result = %+v, want 2 updated, 1 failed", result)
	}
	if !strings.Contains(buf.String(), "failed:  article 2") {
		t.Errorf("output missing failure line:\n%s", buf.String())
	}
}

// recordingViz records render calls.
type recordingViz struct {
	paths []string
	err   error
}

func (v *recordingViz) Render(art *types.Article, path string) error {
	v.paths = append(v.paths, path)
	return v.err
}

func TestRunRendersWhenVisualizerSet(t *testing.T) {
	mgr := testCorpus(t, 2)
	reader := annotate.NewReader(mgr.Dir(), types.BackendUDPipe)
	viz := &recordingViz{}

	var buf strings.Builder
	result, err := New(mgr, reader, viz).Run(&buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Updated != 2 {
		t.Errorf("Updated = %d, want 2", result.Updated)
	}

	if len(viz.paths) != 2 {
		t.Fatalf("got %d render calls, want 2", len(viz.paths))
	}
	want := filepath.Join(mgr.Dir(), "1_image.png")
	if viz.paths[0] != want {
		t.Errorf("render path = %q, want %q", viz.paths[0], want)
	}
}

func TestRunCountsRenderFailures(t *testing.T) {
	mgr := testCorpus(t, 1)
	reader := annotate.NewReader(mgr.Dir(), types.BackendUDPipe)
	viz := &recordingViz{err: fmt.Errorf("plotter crashed")}

	var buf strings.Builder
	result, err := New(mgr, reader, viz).Run(&buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
}
