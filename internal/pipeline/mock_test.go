package pipeline

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/parmanandojha/aiagentsearch/internal/model"
)

// mockAuditor counts calls per method so tests can assert which network
// steps ran for each candidate.
type mockAuditor struct {
	probeOK      map[string]bool
	auditResults map[string]model.AuditResult
	auditErr     map[string]error
	panicOn      string

	probeCalls   int
	contactCalls int
	socialCalls  int
	auditCalls   int
	visitedOrder []string
}

func newMockAuditor() *mockAuditor {
	return &mockAuditor{
		probeOK:      map[string]bool{},
		auditResults: map[string]model.AuditResult{},
		auditErr:     map[string]error{},
	}
}

func (m *mockAuditor) Probe(_ context.Context, websiteURL string) bool {
	m.probeCalls++
	m.visitedOrder = append(m.visitedOrder, websiteURL)
	if websiteURL == m.panicOn {
		panic("auditor blew up on " + websiteURL)
	}
	return m.probeOK[websiteURL]
}

func (m *mockAuditor) ExtractContacts(_ context.Context, websiteURL string) model.Contact {
	m.contactCalls++
	return model.Contact{Phone: "+15125550100", Email: "info@" + hostOf(websiteURL)}
}

func (m *mockAuditor) DiscoverSocials(_ context.Context, websiteURL string) model.Socials {
	m.socialCalls++
	return model.Socials{Facebook: "https://facebook.com/" + hostOf(websiteURL)}
}

func (m *mockAuditor) Audit(_ context.Context, websiteURL string) (model.AuditResult, error) {
	m.auditCalls++
	if err := m.auditErr[websiteURL]; err != nil {
		return model.AuditResult{}, err
	}
	return m.auditResults[websiteURL], nil
}

func hostOf(websiteURL string) string {
	return websiteURL[len("https://"):]
}

// mockScorer returns a fixed score per audit CMS marker.
type mockScorer struct {
	score float64
	tier  model.OpportunityLevel
	calls int
}

func (m *mockScorer) Score(model.AuditResult) float64 {
	m.calls++
	return m.score
}

func (m *mockScorer) Opportunity(float64) model.OpportunityLevel {
	return m.tier
}

var errAuditBoom = eris.New("parse wedged")
