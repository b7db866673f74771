package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Profile field defaults applied when a stored profile is loaded into the form.
const (
	DefaultSex            = "male"
	DefaultCategory       = "general"
	DefaultMaritalStatus  = "na"
	DefaultOnlyGirlChild  = "no"
	DefaultParentalStatus = "both_alive"
	SexFemale             = "female"
)

// Profile is the eligibility profile used for scheme discovery.
type Profile struct {
	State           string     `json:"state"`
	Age             FlexString `json:"age"`
	Sex             string     `json:"sex"`
	Occupation      string     `json:"occupation"`
	Income          FlexString `json:"income"`
	Category        string     `json:"category"`
	MaritalStatus   string     `json:"marital_status"`
	IsOnlyGirlChild string     `json:"is_only_girl_child"`
	ParentalStatus  string     `json:"parental_status"`
}

// WithDefaults fills blank selector fields. maritalDefault overrides
// DefaultMaritalStatus when non-empty.
func (p Profile) WithDefaults(maritalDefault string) Profile {
	if maritalDefault == "" {
		maritalDefault = DefaultMaritalStatus
	}
	if p.Sex == "" {
		p.Sex = DefaultSex
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.MaritalStatus == "" {
		p.MaritalStatus = maritalDefault
	}
	if p.IsOnlyGirlChild == "" {
		p.IsOnlyGirlChild = DefaultOnlyGirlChild
	}
	if p.ParentalStatus == "" {
		p.ParentalStatus = DefaultParentalStatus
	}
	return p
}

// AgeYears parses Age; anything that is not a whole number yields 0.
func (p Profile) AgeYears() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(p.Age)))
	if err != nil {
		return 0
	}
	return n
}

// FlexString is a string that also accepts a JSON number. Form inputs are
// sent as strings but stored profiles may carry numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}
