// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/corpus-engine/internal/httputil"
	"github.com/pdiddy/corpus-engine/pkg/conllu"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

// UDPipeProvider annotates texts through a UDPipe REST service
// (the `/process` endpoint of udpipe_server or the LINDAT deployment).
// The service runs tokenizer, tagger and parser and returns CoNLL-U
// markup in a JSON envelope.
type UDPipeProvider struct {
	artifactStore

	client     *http.Client
	endpoint   string
	model      string
	token      string
	userAgent  string
	maxRetries int
}

// udpipeResponse is the JSON envelope returned by the REST service.
type udpipeResponse struct {
	Model  string `json:"model"`
	Result string `json:"result"`
}

// NewUDPipeProvider creates the REST-backed provider. The endpoint must
// point at a UDPipe `/process` URL; token is optional and sent as a
// bearer credential for hosted deployments.
func NewUDPipeProvider(client *http.Client, cfg types.AnnotationConfig) (*UDPipeProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("udpipe backend requires an endpoint")
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &UDPipeProvider{
		artifactStore: artifactStore{dir: cfg.AssetsDir, name: string(types.BackendUDPipe)},
		client:        client,
		endpoint:      cfg.Endpoint,
		model:         cfg.Model,
		token:         cfg.Token,
		userAgent:     cfg.UserAgent,
		maxRetries:    cfg.MaxRetries,
	}, nil
}

// Name identifies the backend.
func (p *UDPipeProvider) Name() string { return string(types.BackendUDPipe) }

// Annotate sends one request per text, in input order, and parses each
// returned CoNLL-U payload. Rate-limited responses are retried with
// backoff; any other non-200 status fails the whole batch.
func (p *UDPipeProvider) Annotate(ctx context.Context, texts []string) ([]conllu.Document, error) {
	docs := make([]conllu.Document, len(texts))
	for i, text := range texts {
		doc, err := p.process(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("annotating text %d: %w", i+1, err)
		}
		docs[i] = doc
	}
	return docs, nil
}

func (p *UDPipeProvider) process(ctx context.Context, text string) (conllu.Document, error) {
	form := url.Values{}
	form.Set("data", text)
	form.Set("tokenizer", "")
	form.Set("tagger", "")
	form.Set("parser", "")
	if p.model != "" {
		form.Set("model", p.model)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return conllu.Document{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := httputil.DoWithRetry(ctx, p.client, req, p.maxRetries)
	if err != nil {
		return conllu.Document{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return conllu.Document{}, fmt.Errorf("udpipe service returned %s: %s",
			resp.Status, strings.TrimSpace(string(body)))
	}

	var envelope udpipeResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return conllu.Document{}, fmt.Errorf("decoding udpipe response: %w", err)
	}
	if envelope.Result == "" {
		return conllu.Document{}, fmt.Errorf("udpipe service returned an empty result")
	}

	doc, err := conllu.Parse(envelope.Result)
	if err != nil {
		return conllu.Document{}, fmt.Errorf("parsing udpipe result: %w", err)
	}
	return doc, nil
}
