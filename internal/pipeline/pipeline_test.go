package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parmanandojha/aiagentsearch/internal/config"
	"github.com/parmanandojha/aiagentsearch/internal/model"
)

func newTestPipeline(auditor SiteAuditor, scorer Scorer) *Pipeline {
	// Zero throttle keeps tests fast.
	return New(auditor, scorer, config.PipelineConfig{ThrottleSecs: 0})
}

func candidate(name, website string) model.Candidate {
	return model.Candidate{PlaceID: "pid-" + name, Name: name, Website: website}
}

func TestProcess_OneRecordPerCandidateInOrder(t *testing.T) {
	auditor := newMockAuditor()
	auditor.probeOK["https://a.example.com"] = true
	auditor.probeOK["https://b.example.com"] = true
	scorer := &mockScorer{score: 6.5, tier: model.OpportunityDigitallyMature}

	p := newTestPipeline(auditor, scorer)
	out := p.Process(context.Background(), []model.Candidate{
		candidate("a", "https://a.example.com"),
		candidate("b", "https://b.example.com"),
		candidate("c", ""),
	}, nil)

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Name)
	assert.Equal(t, "b", out[1].Name)
	assert.Equal(t, "c", out[2].Name)
}

func TestProcess_NoWebsiteSkipsNetwork(t *testing.T) {
	auditor := newMockAuditor()
	scorer := &mockScorer{}

	p := newTestPipeline(auditor, scorer)
	out := p.Process(context.Background(), []model.Candidate{candidate("a", "")}, nil)

	require.Len(t, out, 1)
	assert.Equal(t, 0.0, out[0].WebsiteScore)
	assert.Equal(t, model.OpportunityUnknown, out[0].Opportunity)
	assert.Empty(t, out[0].Issues)
	assert.Zero(t, auditor.probeCalls)
	assert.Zero(t, auditor.contactCalls)
	assert.Zero(t, auditor.auditCalls)
	assert.Zero(t, scorer.calls)
}

func TestProcess_UnreachableStopsAfterProbe(t *testing.T) {
	auditor := newMockAuditor()
	scorer := &mockScorer{}

	p := newTestPipeline(auditor, scorer)
	out := p.Process(context.Background(), []model.Candidate{
		candidate("a", "https://down.example.com"),
	}, nil)

	require.Len(t, out, 1)
	require.Len(t, out[0].Issues, 1)
	assert.Equal(t, model.IssueNotAccessible, out[0].Issues[0].Kind)
	assert.Equal(t, 0.0, out[0].WebsiteScore)
	assert.Equal(t, model.OpportunityUnknown, out[0].Opportunity)
	assert.Equal(t, 1, auditor.probeCalls)
	assert.Zero(t, auditor.contactCalls)
	assert.Zero(t, auditor.socialCalls)
	assert.Zero(t, auditor.auditCalls)
}

func TestProcess_FullChainInOrder(t *testing.T) {
	auditor := newMockAuditor()
	auditor.probeOK["https://a.example.com"] = true
	auditor.auditResults["https://a.example.com"] = model.AuditResult{
		TechStack: model.TechStack{CMS: "WordPress"},
		Issues:    []model.Issue{{Kind: model.IssueMissingTitle}},
	}
	scorer := &mockScorer{score: 3.2, tier: model.OpportunityNeedsRedesign}

	p := newTestPipeline(auditor, scorer)
	out := p.Process(context.Background(), []model.Candidate{
		candidate("a", "https://a.example.com"),
	}, nil)

	require.Len(t, out, 1)
	got := out[0]
	assert.Equal(t, "+15125550100", got.Contact.Phone)
	assert.Equal(t, "https://facebook.com/a.example.com", got.Socials.Facebook)
	assert.Equal(t, "WordPress", got.TechStack.CMS)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, model.IssueMissingTitle, got.Issues[0].Kind)
	assert.Equal(t, 3.2, got.WebsiteScore)
	assert.Equal(t, model.OpportunityNeedsRedesign, got.Opportunity)
	assert.Equal(t, 1, auditor.contactCalls)
	assert.Equal(t, 1, auditor.socialCalls)
	assert.Equal(t, 1, auditor.auditCalls)
	assert.Equal(t, 1, scorer.calls)
}

func TestProcess_AuditErrorKeepsContacts(t *testing.T) {
	auditor := newMockAuditor()
	auditor.probeOK["https://a.example.com"] = true
	auditor.auditErr["https://a.example.com"] = errAuditBoom
	scorer := &mockScorer{score: 9.9}

	p := newTestPipeline(auditor, scorer)
	out := p.Process(context.Background(), []model.Candidate{
		candidate("a", "https://a.example.com"),
	}, nil)

	require.Len(t, out, 1)
	got := out[0]
	assert.Equal(t, "+15125550100", got.Contact.Phone)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, model.IssueAuditError, got.Issues[0].Kind)
	assert.Equal(t, 0.0, got.WebsiteScore)
	assert.Equal(t, model.OpportunityUnknown, got.Opportunity)
	assert.Zero(t, scorer.calls)
}

func TestProcess_PanicYieldsProcessingError(t *testing.T) {
	auditor := newMockAuditor()
	auditor.probeOK["https://ok.example.com"] = true
	auditor.panicOn = "https://boom.example.com"
	scorer := &mockScorer{score: 8.0, tier: model.OpportunityHighPotential}

	p := newTestPipeline(auditor, scorer)
	out := p.Process(context.Background(), []model.Candidate{
		candidate("a", "https://boom.example.com"),
		candidate("b", "https://ok.example.com"),
	}, nil)

	require.Len(t, out, 2)
	require.Len(t, out[0].Issues, 1)
	assert.Equal(t, model.IssueProcessingError, out[0].Issues[0].Kind)
	assert.Contains(t, out[0].Issues[0].Detail, "boom.example.com")
	assert.Equal(t, model.OpportunityUnknown, out[0].Opportunity)
	// The run continues past the failed candidate.
	assert.Equal(t, model.OpportunityHighPotential, out[1].Opportunity)
}

func TestProcess_OnItemSynchronousOneBased(t *testing.T) {
	auditor := newMockAuditor()
	auditor.probeOK["https://a.example.com"] = true
	scorer := &mockScorer{score: 5.0, tier: model.OpportunityDigitallyMature}

	type call struct {
		name  string
		index int
		total int
	}
	var calls []call

	p := newTestPipeline(auditor, scorer)
	p.Process(context.Background(), []model.Candidate{
		candidate("a", "https://a.example.com"),
		candidate("b", ""),
	}, func(b model.ProcessedBusiness, index, total int) {
		calls = append(calls, call{b.Name, index, total})
	})

	require.Len(t, calls, 2)
	assert.Equal(t, call{"a", 1, 2}, calls[0])
	assert.Equal(t, call{"b", 2, 2}, calls[1])
}

func TestProcess_OnItemCalledForFailedCandidates(t *testing.T) {
	auditor := newMockAuditor()
	auditor.panicOn = "https://boom.example.com"
	scorer := &mockScorer{}

	var seen int
	p := newTestPipeline(auditor, scorer)
	p.Process(context.Background(), []model.Candidate{
		candidate("a", "https://boom.example.com"),
	}, func(model.ProcessedBusiness, int, int) { seen++ })

	assert.Equal(t, 1, seen)
}

func TestProcess_Empty(t *testing.T) {
	p := newTestPipeline(newMockAuditor(), &mockScorer{})
	out := p.Process(context.Background(), nil, nil)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}
