package model

// UXAudit holds UX and design findings for a page.
type UXAudit struct {
	MobileResponsive bool   `json:"mobile_responsive"`
	Navigation       string `json:"navigation_clarity"`
	VisualModernity  string `json:"visual_modernity"`
	CTAPresent       bool   `json:"cta_present"`
}

// ContentAudit holds content-quality findings for a page.
type ContentAudit struct {
	ValueProposition bool     `json:"value_proposition"`
	ServicesListed   bool     `json:"services_listed"`
	MissingPages     []string `json:"missing_pages,omitempty"`
}

// Performance holds basic timing measurements.
type Performance struct {
	LoadTimeSecs float64 `json:"load_time"`
}

// AuditResult is the full audit of one business website. It feeds the scorer
// and the issues list carried on the processed business.
type AuditResult struct {
	UX          UXAudit      `json:"ux_design"`
	Content     ContentAudit `json:"content"`
	TechStack   TechStack    `json:"tech_stack"`
	Issues      []Issue      `json:"issues"`
	Performance Performance  `json:"performance"`
}
