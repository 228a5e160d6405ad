// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists the annotated corpus into a queryable SQLite
// database: article metadata, sentences with FTS5 full-text search, the
// token table behind lemma/UPOS filters, and ingested pattern matches.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/corpus-engine/internal/annotate"
	"github.com/pdiddy/corpus-engine/internal/corpus"
	"github.com/pdiddy/corpus-engine/pkg/conllu"
	"github.com/pdiddy/corpus-engine/pkg/types"
)

const dbFile = "corpus.db"

// Store manages the corpus index SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the index database at indexDir/corpus.db and
// creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		indexDir:   cfg.IndexDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY,
			title TEXT,
			url TEXT,
			date TEXT,
			author TEXT,
			topics TEXT,
			pos_frequencies TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sentences (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			article_id INTEGER NOT NULL REFERENCES articles(id),
			sent_index INTEGER NOT NULL,
			text TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sentences_article_id ON sentences(article_id)`,
		`CREATE TABLE IF NOT EXISTS tokens (
			sentence_id INTEGER NOT NULL REFERENCES sentences(rowid),
			token_id INTEGER NOT NULL,
			form TEXT NOT NULL,
			lemma TEXT,
			upos TEXT,
			head INTEGER,
			deprel TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tokens_sentence_id ON tokens(sentence_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tokens_lemma ON tokens(lemma)`,
		`CREATE INDEX IF NOT EXISTS idx_tokens_upos ON tokens(upos)`,
		`CREATE TABLE IF NOT EXISTS matches (
			article_id INTEGER NOT NULL REFERENCES articles(id),
			sent_index INTEGER NOT NULL,
			tree TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_article_id ON matches(article_id)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			article_id INTEGER PRIMARY KEY,
			artifact_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='sentences_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE sentences_fts USING fts5(text, content=sentences, content_rowid=rowid)`,
			`CREATE TRIGGER sentences_ai AFTER INSERT ON sentences BEGIN
				INSERT INTO sentences_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
			`CREATE TRIGGER sentences_ad AFTER DELETE ON sentences BEGIN
				INSERT INTO sentences_fts(sentences_fts, rowid, text) VALUES('delete', old.rowid, old.text);
			END`,
			`CREATE TRIGGER sentences_au AFTER UPDATE ON sentences BEGIN
				INSERT INTO sentences_fts(sentences_fts, rowid, text) VALUES('delete', old.rowid, old.text);
				INSERT INTO sentences_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// BuildSummary holds counts from an index build run.
type BuildSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of articles processed.
func (s BuildSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Build ingests every article's persisted annotation into the database.
// Artifact mod-times are tracked per article so unchanged articles are
// skipped on subsequent runs; changed articles are re-indexed in place.
func (s *Store) Build(ctx context.Context, mgr *corpus.Manager, provider annotate.Provider, w io.Writer) (BuildSummary, error) {
	var summary BuildSummary

	for _, id := range mgr.IDs() {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		art := mgr.Articles()[id]

		info, err := os.Stat(art.ConlluPath(mgr.Dir(), provider.Name()))
		if err != nil {
			fmt.Fprintf(w, "failed  article %d: %v\n", id, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		// Skip articles whose artifact is unchanged since last indexing.
		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT artifact_mod_time FROM indexing_status WHERE article_id = ?`, id,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped article %d\n", id)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		doc, err := provider.Load(art)
		if err != nil {
			fmt.Fprintf(w, "failed  article %d: %v\n", id, err)
			summary.Failed++
			continue
		}

		if err := art.ReadMeta(mgr.Dir()); err != nil {
			fmt.Fprintf(w, "failed  article %d: %v\n", id, err)
			summary.Failed++
			continue
		}

		if err := s.ingestArticle(ctx, art, doc, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  article %d: %v\n", id, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated article %d (%d sentences)\n", id, len(doc.Sentences))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed article %d (%d sentences)\n", id, len(doc.Sentences))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestArticle(ctx context.Context, art *types.Article, doc conllu.Document, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Remove old rows when re-indexing.
	if isUpdate {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM tokens WHERE sentence_id IN (SELECT rowid FROM sentences WHERE article_id = ?)`,
			art.ID); err != nil {
			return fmt.Errorf("deleting old tokens: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM sentences WHERE article_id = ?`, art.ID); err != nil {
			return fmt.Errorf("deleting old sentences: %w", err)
		}
	}

	authorJSON, _ := json.Marshal(art.Meta.Author)
	topicsJSON, _ := json.Marshal(art.Meta.Topics)
	freqJSON, _ := json.Marshal(art.Meta.POSFrequencies)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (id, title, url, date, author, topics, pos_frequencies)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, url=excluded.url, date=excluded.date,
			author=excluded.author, topics=excluded.topics,
			pos_frequencies=excluded.pos_frequencies`,
		art.ID, art.Meta.Title, art.Meta.URL, art.Meta.Date,
		string(authorJSON), string(topicsJSON), string(freqJSON),
	)
	if err != nil {
		return fmt.Errorf("upserting article: %w", err)
	}

	sentStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sentences (article_id, sent_index, text) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing sentence insert: %w", err)
	}
	defer sentStmt.Close()

	tokStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tokens (sentence_id, token_id, form, lemma, upos, head, deprel)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing token insert: %w", err)
	}
	defer tokStmt.Close()

	for idx, sent := range doc.Sentences {
		res, err := sentStmt.ExecContext(ctx, art.ID, idx, sentenceText(sent))
		if err != nil {
			return fmt.Errorf("inserting sentence %d: %w", idx, err)
		}
		sentRowID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("resolving sentence rowid: %w", err)
		}
		for _, tok := range sent.Tokens {
			if _, err := tokStmt.ExecContext(ctx,
				sentRowID, tok.ID, tok.Form, tok.Lemma, tok.UPOS, tok.Head, tok.Deprel,
			); err != nil {
				return fmt.Errorf("inserting token %d of sentence %d: %w", tok.ID, idx, err)
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (article_id, artifact_mod_time) VALUES (?, ?)
		 ON CONFLICT(article_id) DO UPDATE SET artifact_mod_time=excluded.artifact_mod_time`,
		art.ID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// IngestMatches replaces the matches table with the contents of a
// pattern-search JSON artifact (article id → sentence index → trees).
func (s *Store) IngestMatches(ctx context.Context, path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading pattern matches %s: %w", path, err)
	}

	var found map[int]map[int][]json.RawMessage
	if err := json.Unmarshal(data, &found); err != nil {
		return fmt.Errorf("parsing pattern matches %s: %w", path, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches`); err != nil {
		return fmt.Errorf("clearing matches: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO matches (article_id, sent_index, tree) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing match insert: %w", err)
	}
	defer stmt.Close()

	total := 0
	for articleID, sentences := range found {
		for sentIndex, trees := range sentences {
			for _, tree := range trees {
				if _, err := stmt.ExecContext(ctx, articleID, sentIndex, string(tree)); err != nil {
					return fmt.Errorf("inserting match for article %d sentence %d: %w",
						articleID, sentIndex, err)
				}
				total++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	fmt.Fprintf(w, "ingested %d pattern matches from %s\n", total, path)
	return nil
}

// sentenceText joins token forms into the searchable sentence string.
func sentenceText(sent conllu.Sentence) string {
	forms := make([]string, len(sent.Tokens))
	for i, t := range sent.Tokens {
		forms[i] = t.Form
	}
	return strings.Join(forms, " ")
}
