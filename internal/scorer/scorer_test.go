package scorer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parmanandojha/aiagentsearch/internal/model"
)

func cleanAudit() model.AuditResult {
	return model.AuditResult{
		UX: model.UXAudit{
			MobileResponsive: true,
			Navigation:       "Good",
			VisualModernity:  "Modern",
			CTAPresent:       true,
		},
		Content: model.ContentAudit{
			ValueProposition: true,
			ServicesListed:   true,
		},
	}
}

func TestScore_CleanSite(t *testing.T) {
	s := New(DefaultRubric())
	assert.Equal(t, 10.0, s.Score(cleanAudit()))
}

func TestScore_Deductions(t *testing.T) {
	s := New(DefaultRubric())

	audit := cleanAudit()
	audit.UX.MobileResponsive = false // -1.5
	audit.Issues = []model.Issue{
		{Kind: model.IssueMissingSSL},   // -2.0
		{Kind: model.IssueMissingTitle}, // -0.5
	}
	audit.Content.MissingPages = []string{"About", "Privacy"} // -0.6

	assert.InDelta(t, 5.4, s.Score(audit), 0.001)
}

func TestScore_ClampedAtZero(t *testing.T) {
	s := New(DefaultRubric())

	audit := model.AuditResult{
		UX: model.UXAudit{Navigation: "Poor", VisualModernity: "Outdated"},
		Content: model.ContentAudit{
			MissingPages: []string{"About", "Contact", "Privacy"},
		},
		Issues: []model.Issue{
			{Kind: model.IssueMissingSSL},
			{Kind: model.IssueMissingTitle},
			{Kind: model.IssueMissingDescription},
			{Kind: model.IssueMissingH1},
			{Kind: model.IssueBrokenLinks},
			{Kind: model.IssueLargePage},
			{Kind: model.IssueMissingAlt},
		},
		Performance: model.Performance{LoadTimeSecs: 12},
	}

	assert.Equal(t, 0.0, s.Score(audit))
}

func TestScore_ModernCMSBonusCapped(t *testing.T) {
	s := New(DefaultRubric())

	audit := cleanAudit()
	audit.TechStack.CMS = "Shopify"
	// Bonus cannot push past 10.
	assert.Equal(t, 10.0, s.Score(audit))

	audit.UX.CTAPresent = false
	assert.InDelta(t, 10.0, s.Score(audit), 0.001) // -0.5 +0.5
}

func TestScore_SlowLoadPenalty(t *testing.T) {
	s := New(DefaultRubric())
	audit := cleanAudit()
	audit.Performance.LoadTimeSecs = 4.2
	assert.InDelta(t, 9.0, s.Score(audit), 0.001)
}

func TestOpportunity_Tiers(t *testing.T) {
	s := New(DefaultRubric())

	assert.Equal(t, model.OpportunityHighPotential, s.Opportunity(7.0))
	assert.Equal(t, model.OpportunityHighPotential, s.Opportunity(10))
	assert.Equal(t, model.OpportunityDigitallyMature, s.Opportunity(6.99))
	assert.Equal(t, model.OpportunityDigitallyMature, s.Opportunity(4.0))
	assert.Equal(t, model.OpportunityNeedsRedesign, s.Opportunity(3.99))
	assert.Equal(t, model.OpportunityNeedsRedesign, s.Opportunity(0))
}

func TestLoadRubric_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubric.yaml")
	require.NoError(t, os.WriteFile(path, []byte("missing_ssl: 5.0\nhigh_potential_min: 8.5\n"), 0o644))

	rubric, err := LoadRubric(path)
	require.NoError(t, err)

	assert.Equal(t, 5.0, rubric.MissingSSL)
	assert.Equal(t, 8.5, rubric.HighPotentialMin)
	// Untouched keys keep defaults.
	assert.Equal(t, 1.5, rubric.NotMobileResponsive)
}

func TestLoadRubric_MissingFileKeepsDefaults(t *testing.T) {
	rubric, err := LoadRubric(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	assert.Equal(t, DefaultRubric(), rubric)
}
