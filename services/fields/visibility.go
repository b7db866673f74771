package fields

import (
	"strconv"
	"strings"

	"sanket/models"
)

// Visibility says which dependent profile fields are shown.
type Visibility struct {
	ShowOnlyGirlChild  bool `json:"showOnlyGirlChild"`
	ShowParentalStatus bool `json:"showParentalStatus"`
}

// For derives field visibility from sex and age: the only-girl-child field
// applies to females of any age, parental status to minors (0 < age < 18).
func For(sex string, age int) Visibility {
	return Visibility{
		ShowOnlyGirlChild:  sex == models.SexFemale,
		ShowParentalStatus: age > 0 && age < 18,
	}
}

// FromInput is For with the age taken from raw form text. Text that is not
// a whole number counts as 0.
func FromInput(sex, ageText string) Visibility {
	age, err := strconv.Atoi(strings.TrimSpace(ageText))
	if err != nil {
		age = 0
	}
	return For(sex, age)
}

// ForProfile evaluates a profile's sex and age fields.
func ForProfile(p models.Profile) Visibility {
	return For(p.Sex, p.AgeYears())
}
