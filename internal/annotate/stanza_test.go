// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotate

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/pdiddy/corpus-engine/pkg/types"
)

// fakeRuntime is a container.Runtime that answers from canned CoNLL-U
// output and records the arguments of each run.
type fakeRuntime struct {
	missingImage bool
	output       string
	runErr       error

	runs [][]string
}

func (f *fakeRuntime) Name() string    { return "docker" }
func (f *fakeRuntime) Available() bool { return true }

func (f *fakeRuntime) ImageExists(image string) error {
	if f.missingImage {
		return fmt.Errorf("image %s not found", image)
	}
	return nil
}

func (f *fakeRuntime) Run(image string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.runs = append(f.runs, append([]string{image}, args...))
	if f.runErr != nil {
		return f.runErr
	}
	io.Copy(io.Discard, stdin)
	_, err := io.WriteString(stdout, f.output)
	return err
}

const stanzaOutput = `1	Кошка	кошка	NOUN	_	_	2	nsubj	_	_
2	спит	спать	VERB	_	_	0	root	_	_

`

func TestNewStanzaProviderRequiresImage(t *testing.T) {
	rt := &fakeRuntime{missingImage: true}
	if _, err := NewStanzaProvider(rt, types.AnnotationConfig{}); err == nil {
		t.Error("expected error when stanza image is missing")
	}
}

func TestStanzaAnnotate(t *testing.T) {
	rt := &fakeRuntime{output: stanzaOutput}
	p, err := NewStanzaProvider(rt, types.AnnotationConfig{Model: "ru"})
	if err != nil {
		t.Fatal(err)
	}

	docs, err := p.Annotate(context.Background(), []string{"Кошка спит", "Кошка спит"})
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[1].TokenCount() != 2 {
		t.Errorf("TokenCount = %d, want 2", docs[1].TokenCount())
	}

	if len(rt.runs) != 2 {
		t.Fatalf("got %d container runs, want 2", len(rt.runs))
	}
	want := strings.Join([]string{imageStanza, "--model", "ru"}, " ")
	if got := strings.Join(rt.runs[0], " "); got != want {
		t.Errorf("run args = %q, want %q", got, want)
	}
}

func TestStanzaAnnotateRunFailure(t *testing.T) {
	rt := &fakeRuntime{runErr: fmt.Errorf("exit status 1")}
	p, err := NewStanzaProvider(rt, types.AnnotationConfig{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Annotate(context.Background(), []string{"текст"}); err == nil {
		t.Error("expected error when the container run fails")
	}
}
