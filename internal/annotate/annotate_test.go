// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotate

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/pdiddy/corpus-engine/pkg/conllu"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

func sampleDocument() conllu.Document {
	return conllu.Document{Sentences: []conllu.Sentence{{Tokens: []conllu.Token{
		{ID: 1, Form: "Кошка", Lemma: "кошка", UPOS: "NOUN", Head: 2, Deprel: "nsubj"},
		{ID: 2, Form: "спит", Lemma: "спать", UPOS: "VERB", Head: 0, Deprel: "root"},
	}}}}
}

func TestArtifactStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := artifactStore{dir: dir, name: "udpipe"}

	doc := sampleDocument()
	art := &types.Article{ID: 1, Document: &doc}

	if err := store.Persist(art); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	loaded, err := store.Load(art)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Sentences) != 1 {
		t.Fatalf("got %d sentences, want 1", len(loaded.Sentences))
	}
	if loaded.Sentences[0].Tokens[0] != doc.Sentences[0].Tokens[0] {
		t.Errorf("token 1 = %+v, want %+v",
			loaded.Sentences[0].Tokens[0], doc.Sentences[0].Tokens[0])
	}
}

func TestArtifactStorePersistRequiresDocument(t *testing.T) {
	store := artifactStore{dir: t.TempDir(), name: "udpipe"}
	if err := store.Persist(&types.Article{ID: 1}); err == nil {
		t.Error("expected error for article without document")
	}
}

func TestArtifactStoreLoadEmptyArtifact(t *testing.T) {
	dir := t.TempDir()
	store := artifactStore{dir: dir, name: "udpipe"}

	art := &types.Article{ID: 1}
	if err := os.WriteFile(art.ConlluPath(dir, "udpipe"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := store.Load(art)
	if !errors.Is(err, ErrEmptyArtifact) {
		t.Errorf("err = %v, want ErrEmptyArtifact", err)
	}
}

func TestArtifactStoreLoadMissingArtifact(t *testing.T) {
	store := artifactStore{dir: t.TempDir(), name: "udpipe"}
	if _, err := store.Load(&types.Article{ID: 1}); err == nil {
		t.Error("expected error for missing artifact")
	}
}

func TestReader(t *testing.T) {
	dir := t.TempDir()

	doc := sampleDocument()
	art := &types.Article{ID: 1, Document: &doc}
	writer := artifactStore{dir: dir, name: string(types.BackendUDPipe)}
	if err := writer.Persist(art); err != nil {
		t.Fatal(err)
	}

	reader := NewReader(dir, types.BackendUDPipe)
	if reader.Name() != "udpipe" {
		t.Errorf("Name = %q, want udpipe", reader.Name())
	}

	loaded, err := reader.Load(art)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.TokenCount() != 2 {
		t.Errorf("TokenCount = %d, want 2", loaded.TokenCount())
	}

	if _, err := reader.Annotate(context.Background(), []string{"текст"}); err == nil {
		t.Error("Annotate on a Reader should fail")
	}
}
