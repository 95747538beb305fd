package scorer

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rubric holds every deduction weight and tier threshold used by the scorer.
// All scores live on a 0-10 scale.
type Rubric struct {
	NotMobileResponsive float64 `yaml:"not_mobile_responsive"`
	PoorNavigation      float64 `yaml:"poor_navigation"`
	NoCTA               float64 `yaml:"no_cta"`
	OutdatedVisuals     float64 `yaml:"outdated_visuals"`

	NoValueProposition float64 `yaml:"no_value_proposition"`
	NoServicesListed   float64 `yaml:"no_services_listed"`
	PerMissingPage     float64 `yaml:"per_missing_page"`

	MissingSSL         float64 `yaml:"missing_ssl"`
	MissingTitle       float64 `yaml:"missing_title"`
	MissingDescription float64 `yaml:"missing_description"`
	H1Problem          float64 `yaml:"h1_problem"`
	BrokenLinks        float64 `yaml:"broken_links"`
	LargePage          float64 `yaml:"large_page"`
	MissingAlt         float64 `yaml:"missing_alt"`

	SlowLoadSecs    float64 `yaml:"slow_load_secs"`
	SlowLoadPenalty float64 `yaml:"slow_load_penalty"`

	ModernCMSBonus float64 `yaml:"modern_cms_bonus"`

	HighPotentialMin float64 `yaml:"high_potential_min"`
	NeedsRedesignMax float64 `yaml:"needs_redesign_max"`
}

// DefaultRubric returns the stock weights.
func DefaultRubric() Rubric {
	return Rubric{
		NotMobileResponsive: 1.5,
		PoorNavigation:      1.0,
		NoCTA:               0.5,
		OutdatedVisuals:     1.0,

		NoValueProposition: 0.5,
		NoServicesListed:   0.5,
		PerMissingPage:     0.3,

		MissingSSL:         2.0,
		MissingTitle:       0.5,
		MissingDescription: 0.5,
		H1Problem:          0.5,
		BrokenLinks:        1.0,
		LargePage:          0.5,
		MissingAlt:         0.5,

		SlowLoadSecs:    3,
		SlowLoadPenalty: 1.0,

		ModernCMSBonus: 0.5,

		HighPotentialMin: 7.0,
		NeedsRedesignMax: 4.0,
	}
}

// LoadRubric reads weight overrides from a YAML file. Keys left out of the
// file keep their defaults.
func LoadRubric(path string) (Rubric, error) {
	rubric := DefaultRubric()

	data, err := os.ReadFile(path)
	if err != nil {
		return rubric, eris.Wrapf(err, "scorer: read rubric %s", path)
	}
	if err := yaml.Unmarshal(data, &rubric); err != nil {
		return rubric, eris.Wrapf(err, "scorer: parse rubric %s", path)
	}
	return rubric, nil
}
