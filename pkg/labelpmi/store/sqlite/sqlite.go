package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/labelpmi/pkg/labelpmi/corpus"
	"github.com/cognicore/labelpmi/pkg/labelpmi/internalerr"
	"github.com/cognicore/labelpmi/pkg/labelpmi/rank"
	"github.com/cognicore/labelpmi/pkg/labelpmi/report"
	"github.com/cognicore/labelpmi/pkg/labelpmi/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	label TEXT NOT NULL,
	body TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	generated_at TEXT NOT NULL,
	smoothing REAL NOT NULL,
	num_pairs INTEGER NOT NULL,
	vocabulary_size INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS report_words (
	report_id TEXT NOT NULL,
	label TEXT NOT NULL,
	position INTEGER NOT NULL,
	word TEXT NOT NULL,
	pmi REAL NOT NULL,
	log_pmi REAL NOT NULL,
	npmi REAL NOT NULL,
	count REAL NOT NULL,
	joint REAL NOT NULL,
	PRIMARY KEY(report_id, label, word),
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// AddDocuments inserts documents in a single transaction
func (s *sqliteStore) AddDocuments(ctx context.Context, docs []corpus.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents (label, body) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, d := range docs {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("document %d: %v: %w", i, err, internalerr.ErrInvalidInput)
		}
		if _, err := stmt.ExecContext(ctx, d.Label, d.Text); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Documents returns every stored document in insertion order
func (s *sqliteStore) Documents(ctx context.Context) ([]corpus.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT label, body FROM documents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []corpus.Document
	for rows.Next() {
		var d corpus.Document
		if err := rows.Scan(&d.Label, &d.Text); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// SaveReport stores the report header and its ranked words
func (s *sqliteStore) SaveReport(ctx context.Context, r report.Report) error {
	if r.ID == "" {
		return fmt.Errorf("report id is required: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO reports (id, generated_at, smoothing, num_pairs, vocabulary_size)
VALUES (?, ?, ?, ?, ?)`,
		r.ID,
		r.GeneratedAt.UTC().Format(time.RFC3339Nano),
		r.Smoothing,
		r.NumPairs,
		r.VocabularySize,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO report_words (report_id, label, position, word, pmi, log_pmi, npmi, count, joint)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, card := range r.Labels {
		for pos, w := range card.Words {
			if _, err := stmt.ExecContext(ctx, r.ID, card.Label, pos, w.Word, w.PMI, w.LogPMI, w.NPMI, w.Count, w.Joint); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ReportWords returns a label's ranked words from a saved report
func (s *sqliteStore) ReportWords(ctx context.Context, reportID, label string) ([]rank.ScoredWord[string], error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE id = ?`, reportID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("report %s: %w", reportID, internalerr.ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT word, pmi, log_pmi, npmi, count, joint
FROM report_words
WHERE report_id = ? AND label = ?
ORDER BY position`, reportID, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	words := []rank.ScoredWord[string]{}
	for rows.Next() {
		var w rank.ScoredWord[string]
		if err := rows.Scan(&w.Word, &w.PMI, &w.LogPMI, &w.NPMI, &w.Count, &w.Joint); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}
