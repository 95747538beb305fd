// Package report assembles the run-level summary from processed businesses.
package report

import (
	"math"
	"sort"

	"github.com/parmanandojha/aiagentsearch/internal/model"
)

const topOpportunityCount = 5

// Build aggregates score statistics across one run's processed businesses.
func Build(industry, location string, businesses []model.ProcessedBusiness) model.Report {
	summary := model.Summary{
		Industry:         industry,
		Location:         location,
		TotalBusinesses:  len(businesses),
		TopOpportunities: []model.TopOpportunity{},
	}

	if len(businesses) > 0 {
		poor := 0
		for _, b := range businesses {
			if b.WebsiteScore < 4.0 {
				poor++
			}
		}
		pct := float64(poor) / float64(len(businesses)) * 100
		summary.PoorWebsitesPct = math.Round(pct*100) / 100
	}

	ranked := make([]model.ProcessedBusiness, len(businesses))
	copy(ranked, businesses)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].WebsiteScore < ranked[j].WebsiteScore
	})
	for _, b := range ranked {
		if len(summary.TopOpportunities) == topOpportunityCount {
			break
		}
		summary.TopOpportunities = append(summary.TopOpportunities, model.TopOpportunity{
			Name:        b.Name,
			Website:     b.Website,
			Score:       b.WebsiteScore,
			Opportunity: b.Opportunity,
		})
	}

	return model.Report{Summary: summary, Businesses: businesses}
}
