package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// Candidate is a business returned by directory search, before auditing.
type Candidate struct {
	PlaceID string `json:"place_id,omitempty"`
	Name    string `json:"name"`
	Address string `json:"location"`
	Website string `json:"website,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// DuplicateKey identifies a real-world business across searches. Two
// candidates are the same business iff their keys are equal.
type DuplicateKey string

// KeySet is the set form consumed by the discovery coordinator.
type KeySet map[DuplicateKey]struct{}

// Contains reports whether key is a member of the set.
func (s KeySet) Contains(key DuplicateKey) bool {
	_, ok := s[key]
	return ok
}

// Add inserts key into the set.
func (s KeySet) Add(key DuplicateKey) {
	s[key] = struct{}{}
}

var keyFolder = cases.Fold()

// Key derives the candidate's DuplicateKey: the place ID verbatim when the
// directory provided one, otherwise folded name and address joined by "|".
func (c Candidate) Key() DuplicateKey {
	if c.PlaceID != "" {
		return DuplicateKey(c.PlaceID)
	}
	return DuplicateKey(foldField(c.Name) + "|" + foldField(c.Address))
}

func foldField(s string) string {
	return keyFolder.String(strings.TrimSpace(s))
}

// Contact holds contact channels extracted from a business website.
type Contact struct {
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	ContactForm string `json:"contact_form,omitempty"`
	WhatsApp    string `json:"whatsapp,omitempty"`
}

// Socials holds discovered social media profile URLs.
type Socials struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// TechStack holds detected website technologies.
type TechStack struct {
	CMS       string   `json:"cms,omitempty"`
	Frontend  string   `json:"frontend,omitempty"`
	Analytics []string `json:"analytics,omitempty"`
}

// OpportunityLevel classifies a website score into outreach tiers.
type OpportunityLevel string

const (
	OpportunityHighPotential   OpportunityLevel = "High Potential"
	OpportunityDigitallyMature OpportunityLevel = "Digitally Mature"
	OpportunityNeedsRedesign   OpportunityLevel = "Needs Redesign"
	OpportunityUnknown         OpportunityLevel = "Unknown"
)

// ProcessedBusiness is a candidate after the full audit and scoring pass.
// Immutable once built; every input candidate yields exactly one.
type ProcessedBusiness struct {
	Candidate
	Contact      Contact          `json:"contact"`
	Socials      Socials          `json:"socials"`
	TechStack    TechStack        `json:"tech_stack"`
	Issues       []Issue          `json:"issues"`
	WebsiteScore float64          `json:"website_score"`
	Opportunity  OpportunityLevel `json:"opportunity_level"`
}
