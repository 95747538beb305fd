// Package scorer turns audit results into a 0-10 website score and a coarse
// opportunity tier.
package scorer

import (
	"math"
	"strings"

	"github.com/parmanandojha/aiagentsearch/internal/model"
)

// Scorer scores audited websites against a rubric.
type Scorer struct {
	rubric Rubric
}

// New creates a Scorer with the given rubric.
func New(rubric Rubric) *Scorer {
	return &Scorer{rubric: rubric}
}

// Score computes the deduction-based score for one audit. Starts at 10,
// subtracts per finding, clamps to [0,10], rounds to two decimals.
func (s *Scorer) Score(audit model.AuditResult) float64 {
	r := s.rubric
	score := 10.0

	if !audit.UX.MobileResponsive {
		score -= r.NotMobileResponsive
	}
	if audit.UX.Navigation == "Poor" {
		score -= r.PoorNavigation
	}
	if !audit.UX.CTAPresent {
		score -= r.NoCTA
	}
	if audit.UX.VisualModernity == "Outdated" {
		score -= r.OutdatedVisuals
	}

	if !audit.Content.ValueProposition {
		score -= r.NoValueProposition
	}
	if !audit.Content.ServicesListed {
		score -= r.NoServicesListed
	}
	score -= float64(len(audit.Content.MissingPages)) * r.PerMissingPage

	for _, issue := range audit.Issues {
		score -= s.issuePenalty(issue.Kind)
	}

	if audit.Performance.LoadTimeSecs > r.SlowLoadSecs {
		score -= r.SlowLoadPenalty
	}

	if isModernCMS(audit.TechStack.CMS) {
		score += r.ModernCMSBonus
	}

	score = math.Max(0, math.Min(10, score))
	return math.Round(score*100) / 100
}

func (s *Scorer) issuePenalty(kind model.IssueKind) float64 {
	r := s.rubric
	switch kind {
	case model.IssueMissingSSL:
		return r.MissingSSL
	case model.IssueMissingTitle:
		return r.MissingTitle
	case model.IssueMissingDescription:
		return r.MissingDescription
	case model.IssueMissingH1, model.IssueMultipleH1:
		return r.H1Problem
	case model.IssueBrokenLinks:
		return r.BrokenLinks
	case model.IssueLargePage:
		return r.LargePage
	case model.IssueMissingAlt:
		return r.MissingAlt
	}
	return 0
}

func isModernCMS(cms string) bool {
	return strings.Contains(cms, "Custom") || cms == "Webflow" || cms == "Shopify"
}

// Opportunity maps a score to its outreach tier.
func (s *Scorer) Opportunity(score float64) model.OpportunityLevel {
	switch {
	case score >= s.rubric.HighPotentialMin:
		return model.OpportunityHighPotential
	case score < s.rubric.NeedsRedesignMax:
		return model.OpportunityNeedsRedesign
	default:
		return model.OpportunityDigitallyMature
	}
}
