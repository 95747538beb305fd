package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "history: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "history: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS searches (
	id          TEXT PRIMARY KEY,
	timestamp   DATETIME NOT NULL,
	industry    TEXT NOT NULL,
	location    TEXT NOT NULL,
	max_results INTEGER NOT NULL,
	summary     TEXT NOT NULL,
	businesses  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_searches_terms ON searches(industry, location);
CREATE INDEX IF NOT EXISTS idx_searches_timestamp ON searches(timestamp);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "history: migrate sqlite")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Append(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	summaryJSON, err := json.Marshal(entry.Summary)
	if err != nil {
		return eris.Wrap(err, "history: marshal summary")
	}
	businessesJSON, err := json.Marshal(entry.Businesses)
	if err != nil {
		return eris.Wrap(err, "history: marshal businesses")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO searches (id, timestamp, industry, location, max_results, summary, businesses)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Timestamp, entry.Industry, entry.Location, entry.MaxResults,
		string(summaryJSON), string(businessesJSON),
	)
	return eris.Wrap(err, "history: insert search")
}

func (s *SQLiteStore) Find(ctx context.Context, industry, location string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, timestamp, industry, location, max_results, summary, businesses
		 FROM searches
		 WHERE lower(trim(industry)) = ? AND lower(trim(location)) = ?
		 ORDER BY timestamp DESC LIMIT 1`,
		normalizeTerm(industry), normalizeTerm(location),
	)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, industry, location, max_results, summary, businesses
		 FROM searches ORDER BY timestamp DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "history: list searches")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, eris.Wrap(rows.Err(), "history: list searches iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (*Entry, error) {
	var entry Entry
	var summaryJSON, businessesJSON string

	err := row.Scan(&entry.ID, &entry.Timestamp, &entry.Industry, &entry.Location,
		&entry.MaxResults, &summaryJSON, &businessesJSON)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "history: scan search")
	}

	if err := json.Unmarshal([]byte(summaryJSON), &entry.Summary); err != nil {
		return nil, eris.Wrap(err, "history: unmarshal summary")
	}
	if err := json.Unmarshal([]byte(businessesJSON), &entry.Businesses); err != nil {
		return nil, eris.Wrap(err, "history: unmarshal businesses")
	}
	return &entry, nil
}
