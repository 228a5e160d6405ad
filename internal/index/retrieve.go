// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for corpus index queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over sentence text.
	Query string

	// Lemma filters to sentences containing a token with this lemma.
	Lemma string

	// UPOS filters to sentences containing a token with this tag.
	UPOS string

	// Deprel filters to sentences containing a token with this relation.
	Deprel string

	// ArticleID filters by article. Zero means all articles.
	ArticleID int

	// MaxResults limits result count. Zero uses store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Lemma == "" && q.UPOS == "" && q.Deprel == "" && q.ArticleID == 0
}

// QueryResult is a sentence hit with its article metadata.
type QueryResult struct {
	ArticleID int      `json:"article_id" yaml:"article_id"`
	SentIndex int      `json:"sent_index" yaml:"sent_index"`
	Text      string   `json:"text" yaml:"text"`
	Title     string   `json:"title" yaml:"title"`
	URL       string   `json:"url" yaml:"url"`
	Topics    []string `json:"topics,omitempty" yaml:"topics,omitempty"`
}

// Retrieve queries the corpus index with optional full-text search and
// token-level filters. Results are ranked by relevance for full-text
// queries or sorted by article id and sentence index for structured-only
// queries.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT sen.article_id, sen.sent_index, sen.text,
				a.title, a.url, a.topics, sentences_fts.rank
			FROM sentences_fts
			JOIN sentences sen ON sen.rowid = sentences_fts.rowid
			LEFT JOIN articles a ON sen.article_id = a.id
			WHERE sentences_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT sen.article_id, sen.sent_index, sen.text,
				a.title, a.url, a.topics, 0 AS rank
			FROM sentences sen
			LEFT JOIN articles a ON sen.article_id = a.id
			WHERE 1=1`)
	}

	if opts.ArticleID != 0 {
		qb.WriteString(` AND sen.article_id = ?`)
		args = append(args, opts.ArticleID)
	}

	if opts.Lemma != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM tokens t WHERE t.sentence_id = sen.rowid AND t.lemma = ?)`)
		args = append(args, opts.Lemma)
	}

	if opts.UPOS != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM tokens t WHERE t.sentence_id = sen.rowid AND t.upos = ?)`)
		args = append(args, opts.UPOS)
	}

	if opts.Deprel != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM tokens t WHERE t.sentence_id = sen.rowid AND t.deprel = ?)`)
		args = append(args, opts.Deprel)
	}

	if useFTS {
		qb.WriteString(` ORDER BY sentences_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY sen.article_id, sen.sent_index`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying corpus index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr         QueryResult
			title      sql.NullString
			url        sql.NullString
			topicsJSON sql.NullString
			rank       float64
		)

		if err := rows.Scan(
			&qr.ArticleID, &qr.SentIndex, &qr.Text,
			&title, &url, &topicsJSON, &rank,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if title.Valid {
			qr.Title = title.String
		}
		if url.Valid {
			qr.URL = url.String
		}
		if topicsJSON.Valid {
			json.Unmarshal([]byte(topicsJSON.String), &qr.Topics)
		}

		results = append(results, qr)
	}

	return results, rows.Err()
}

// MatchesFor returns the stored pattern-match trees for an article,
// decoded from the matches table. Sentence index maps to the trees found
// in that sentence.
func (s *Store) MatchesFor(ctx context.Context, articleID int) (map[int][]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sent_index, tree FROM matches WHERE article_id = ? ORDER BY sent_index`,
		articleID)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	found := make(map[int][]json.RawMessage)
	for rows.Next() {
		var sentIndex int
		var tree string
		if err := rows.Scan(&sentIndex, &tree); err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		found[sentIndex] = append(found[sentIndex], json.RawMessage(tree))
	}

	return found, rows.Err()
}
