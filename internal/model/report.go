package model

// TopOpportunity is one low-scoring business surfaced in the run summary.
type TopOpportunity struct {
	Name        string           `json:"name"`
	Website     string           `json:"website"`
	Score       float64          `json:"score"`
	Opportunity OpportunityLevel `json:"opportunity_level"`
}

// Summary aggregates score statistics for one completed run.
type Summary struct {
	Industry         string           `json:"industry"`
	Location         string           `json:"location"`
	TotalBusinesses  int              `json:"total_businesses"`
	PoorWebsitesPct  float64          `json:"poor_websites_percentage"`
	TopOpportunities []TopOpportunity `json:"top_opportunities"`
}

// Report is the full result of one discovery-and-audit run.
type Report struct {
	Summary    Summary             `json:"summary"`
	Businesses []ProcessedBusiness `json:"businesses"`
}
