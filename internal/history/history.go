// Package history persists completed search runs and seeds duplicate
// suppression for repeat searches.
package history

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/parmanandojha/aiagentsearch/internal/config"
	"github.com/parmanandojha/aiagentsearch/internal/model"
)

// Entry is one completed run. Entries are append-only: a repeat search adds
// a new row rather than touching earlier ones.
type Entry struct {
	ID         string                    `json:"id"`
	Timestamp  time.Time                 `json:"timestamp"`
	Industry   string                    `json:"industry"`
	Location   string                    `json:"location"`
	MaxResults int                       `json:"max_results"`
	Summary    model.Summary             `json:"summary"`
	Businesses []model.ProcessedBusiness `json:"businesses"`
}

// Store defines persistence for run history.
type Store interface {
	// Find returns the most recent entry matching industry and location,
	// compared case-insensitively after trimming. Nil when no run matches.
	Find(ctx context.Context, industry, location string) (*Entry, error)
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)

	Migrate(ctx context.Context) error
	Close() error
}

// DuplicateKeys collects the duplicate keys of every business in an entry,
// used to suppress already-delivered businesses on a repeat search.
func DuplicateKeys(entry *Entry) model.KeySet {
	keys := model.KeySet{}
	if entry == nil {
		return keys
	}
	for _, b := range entry.Businesses {
		keys.Add(b.Key())
	}
	return keys
}

// Open builds the Store named by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("history: unknown store driver %q", cfg.Driver)
	}
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
