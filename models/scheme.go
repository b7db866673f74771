package models

// Scheme is a government benefit program matched to a profile.
type Scheme struct {
	SchemeName  string `json:"scheme_name"`
	Summary     string `json:"summary"`
	Eligibility string `json:"eligibility,omitempty"`
	Link        string `json:"link"`
}
