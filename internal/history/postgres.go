package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the store uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "history: parse postgres config")
	}
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "history: connect postgres")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS searches (
	id          TEXT PRIMARY KEY,
	timestamp   TIMESTAMPTZ NOT NULL,
	industry    TEXT NOT NULL,
	location    TEXT NOT NULL,
	max_results INTEGER NOT NULL,
	summary     JSONB NOT NULL,
	businesses  JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_searches_terms ON searches(lower(trim(industry)), lower(trim(location)));
CREATE INDEX IF NOT EXISTS idx_searches_timestamp ON searches(timestamp);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "history: migrate postgres")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
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

	_, err = s.pool.Exec(ctx,
		`INSERT INTO searches (id, timestamp, industry, location, max_results, summary, businesses)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.Timestamp, entry.Industry, entry.Location, entry.MaxResults,
		summaryJSON, businessesJSON,
	)
	return eris.Wrap(err, "history: insert search")
}

func (s *PostgresStore) Find(ctx context.Context, industry, location string) (*Entry, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, timestamp, industry, location, max_results, summary, businesses
		 FROM searches
		 WHERE lower(trim(industry)) = $1 AND lower(trim(location)) = $2
		 ORDER BY timestamp DESC LIMIT 1`,
		normalizeTerm(industry), normalizeTerm(location),
	)
	entry, err := scanPgEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, timestamp, industry, location, max_results, summary, businesses
		 FROM searches ORDER BY timestamp DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "history: list searches")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanPgEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, eris.Wrap(rows.Err(), "history: list searches iterate")
}

func scanPgEntry(row pgx.Row) (*Entry, error) {
	var entry Entry
	var summaryJSON, businessesJSON []byte

	err := row.Scan(&entry.ID, &entry.Timestamp, &entry.Industry, &entry.Location,
		&entry.MaxResults, &summaryJSON, &businessesJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "history: scan search")
	}

	if err := json.Unmarshal(summaryJSON, &entry.Summary); err != nil {
		return nil, eris.Wrap(err, "history: unmarshal summary")
	}
	if err := json.Unmarshal(businessesJSON, &entry.Businesses); err != nil {
		return nil, eris.Wrap(err, "history: unmarshal businesses")
	}
	return &entry, nil
}
