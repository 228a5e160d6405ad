// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package conllu holds the annotation data model shared by all pipeline
// stages: documents of sentences of tokens in the CoNLL-U tabular form,
// plus the parser and serializer for the on-disk `_conllu` artifacts.
package conllu

import (
	"fmt"
	"strconv"
	"strings"
)

// Token is one annotated word of a sentence.
type Token struct {
	// ID is the 1-based token index within its sentence.
	ID int `json:"id"`

	// Form is the surface form as it appears in the text.
	Form string `json:"form"`

	// Lemma is the dictionary form of the word.
	Lemma string `json:"lemma"`

	// UPOS is the universal part-of-speech tag (NOUN, VERB, ADV, ...).
	UPOS string `json:"upos"`

	// Head is the ID of the governing token, or 0 for the sentence root.
	Head int `json:"head"`

	// Deprel is the dependency relation label to the head (nsubj, advmod, ...).
	Deprel string `json:"deprel"`
}

// Sentence is an ordered sequence of tokens.
type Sentence struct {
	Tokens []Token `json:"tokens"`
}

// Document is an ordered sequence of sentences, one per annotated text.
type Document struct {
	Sentences []Sentence `json:"sentences"`
}

// TokenCount returns the total number of tokens across all sentences.
func (d Document) TokenCount() int {
	n := 0
	for _, s := range d.Sentences {
		n += len(s.Tokens)
	}
	return n
}

// columnCount is the number of tab-separated fields in a CoNLL-U token row:
// ID, FORM, LEMMA, UPOS, XPOS, FEATS, HEAD, DEPREL, DEPS, MISC.
const columnCount = 10

const placeholder = "_"

// Parse reads CoNLL-U markup into a Document. Comment lines (`# sent_id`,
// `# text`) are tolerated and ignored; sentences are separated by blank
// lines. Multiword-token ranges (`1-2`) and empty nodes (`1.1`) carry no
// dependency structure and are skipped.
func Parse(data string) (Document, error) {
	var (
		doc  Document
		sent Sentence
	)

	flush := func() {
		if len(sent.Tokens) > 0 {
			doc.Sentences = append(doc.Sentences, sent)
			sent = Sentence{}
		}
	}

	for lineNo, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < columnCount {
			return Document{}, fmt.Errorf("line %d: expected %d columns, got %d", lineNo+1, columnCount, len(fields))
		}

		// Multiword ranges and empty nodes are not part of the tree.
		if strings.ContainsAny(fields[0], "-.") {
			continue
		}

		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return Document{}, fmt.Errorf("line %d: invalid token id %q: %w", lineNo+1, fields[0], err)
		}
		head, err := strconv.Atoi(fields[6])
		if err != nil {
			return Document{}, fmt.Errorf("line %d: invalid head id %q: %w", lineNo+1, fields[6], err)
		}

		sent.Tokens = append(sent.Tokens, Token{
			ID:     id,
			Form:   fields[1],
			Lemma:  fields[2],
			UPOS:   fields[3],
			Head:   head,
			Deprel: fields[7],
		})
	}
	flush()

	return doc, nil
}

// Serialize renders a Document back into CoNLL-U markup. Fields the model
// does not carry (XPOS, FEATS, DEPS, MISC) are written as `_`.
func Serialize(doc Document) string {
	var b strings.Builder
	for i, sent := range doc.Sentences {
		fmt.Fprintf(&b, "# sent_id = %d\n", i+1)
		forms := make([]string, len(sent.Tokens))
		for j, t := range sent.Tokens {
			forms[j] = t.Form
		}
		fmt.Fprintf(&b, "# text = %s\n", strings.Join(forms, " "))
		for _, t := range sent.Tokens {
			fmt.Fprintf(&b, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
				t.ID, t.Form, t.Lemma, t.UPOS, placeholder, placeholder,
				t.Head, t.Deprel, placeholder, placeholder)
		}
		b.WriteString("\n")
	}
	return b.String()
}
