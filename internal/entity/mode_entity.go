package entity

import "strings"

// ModeTheme is the six-color palette driving the dashboard look.
type ModeTheme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
	TextMuted  string `json:"text_muted"`
}

type ModeTab struct {
	Id    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// ModeMetric holds a dashboard KPI. Value may be a number or a
// pre-formatted string like "$1,234".
type ModeMetric struct {
	Label string      `json:"label"`
	Value interface{} `json:"value"`
	Unit  string      `json:"unit,omitempty"`
}

// Mode is an immutable industry bundle: theming, tabs, the system prompt
// the assistant adopts, and the default metrics panel. Instances are never
// mutated after construction; variants are produced via copy.
type Mode struct {
	Id              string       `json:"id"`
	Name            string       `json:"name"`
	CompanyName     string       `json:"company_name"`
	Tagline         string       `json:"tagline"`
	Theme           ModeTheme    `json:"theme"`
	Tabs            []ModeTab    `json:"tabs"`
	SystemPrompt    string       `json:"system_prompt"`
	DefaultMetrics  []ModeMetric `json:"default_metrics"`
	BackgroundImage string       `json:"background_image,omitempty"`
	HeroImage       string       `json:"hero_image,omitempty"`
	ChatImage       string       `json:"chat_image,omitempty"`
}

// WithCompanyName returns a deep copy of the mode rebranded to the given
// company. Every occurrence of the previous company name in the prompt and
// tagline is substituted; the receiver is left untouched.
func (m *Mode) WithCompanyName(company string) *Mode {
	clone := *m
	clone.Tabs = append([]ModeTab(nil), m.Tabs...)
	clone.DefaultMetrics = append([]ModeMetric(nil), m.DefaultMetrics...)

	if m.CompanyName != "" {
		clone.SystemPrompt = strings.ReplaceAll(m.SystemPrompt, m.CompanyName, company)
		clone.Tagline = strings.ReplaceAll(m.Tagline, m.CompanyName, company)
	}
	clone.CompanyName = company
	return &clone
}

// Persona is the synthetic customer/patient profile for the active mode.
// Shape depends on the mode family, so it stays schemaless.
type Persona map[string]interface{}
