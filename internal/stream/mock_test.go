package stream

import (
	"context"
	"sync"
	"time"

	"github.com/parmanandojha/aiagentsearch/internal/discovery"
	"github.com/parmanandojha/aiagentsearch/internal/history"
	"github.com/parmanandojha/aiagentsearch/internal/model"
	"github.com/parmanandojha/aiagentsearch/internal/pipeline"
)

type mockDiscoverer struct {
	candidates []model.Candidate
	err        error
	gotQuery   discovery.Query
	gotKeys    model.KeySet
}

func (m *mockDiscoverer) Search(_ context.Context, q discovery.Query, existing model.KeySet) ([]model.Candidate, error) {
	m.gotQuery = q
	m.gotKeys = existing
	return m.candidates, m.err
}

type mockProcessor struct {
	score float64
	hang  time.Duration
}

func (m *mockProcessor) Process(ctx context.Context, candidates []model.Candidate, onItem pipeline.OnItem) []model.ProcessedBusiness {
	if m.hang > 0 {
		select {
		case <-time.After(m.hang):
		case <-ctx.Done():
			return nil
		}
	}
	out := make([]model.ProcessedBusiness, 0, len(candidates))
	for i, c := range candidates {
		b := model.ProcessedBusiness{
			Candidate:    c,
			Issues:       []model.Issue{},
			WebsiteScore: m.score,
			Opportunity:  model.OpportunityDigitallyMature,
		}
		out = append(out, b)
		if onItem != nil {
			onItem(b, i+1, len(candidates))
		}
	}
	return out
}

// mockHistoryStore is an in-memory history.Store.
type mockHistoryStore struct {
	mu      sync.Mutex
	entries []history.Entry
	findErr error
}

func (m *mockHistoryStore) Find(_ context.Context, industry, location string) (*history.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].Industry == industry && m.entries[i].Location == location {
			entry := m.entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (m *mockHistoryStore) Append(_ context.Context, entry history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistoryStore) List(_ context.Context, limit int) ([]history.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return m.entries[:limit], nil
}

func (m *mockHistoryStore) Migrate(context.Context) error { return nil }
func (m *mockHistoryStore) Close() error                  { return nil }

func (m *mockHistoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
