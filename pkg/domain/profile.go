package domain

import "strings"

// ProfileField names one answer slot of a UserProfile.
type ProfileField int

const (
	FieldName ProfileField = iota
	FieldSex
	FieldAge
	FieldCity
	FieldOccupation
	FieldHobby
	FieldHandsome
	FieldWealth
	FieldAnnoys
	FieldGoals
)

// fieldLabels is indexed by ProfileField and fixes the summary order.
var fieldLabels = [...]string{
	FieldName:       "Name",
	FieldSex:        "Sex",
	FieldAge:        "Age",
	FieldCity:       "City",
	FieldOccupation: "Occupation",
	FieldHobby:      "Hobby",
	FieldHandsome:   "Attractiveness (points out of 10)",
	FieldWealth:     "Income, wealth",
	FieldAnnoys:     "Dislikes in people",
	FieldGoals:      "Dating goals",
}

// Label returns the human label used in the profile summary.
func (f ProfileField) Label() string {
	if f < 0 || int(f) >= len(fieldLabels) {
		return ""
	}
	return fieldLabels[f]
}

// UserProfile holds free-text answers collected during a guided interview.
// Every field is optional.
type UserProfile struct {
	Name       string `json:"name,omitempty"`
	Sex        string `json:"sex,omitempty"`
	Age        string `json:"age,omitempty"`
	City       string `json:"city,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Hobby      string `json:"hobby,omitempty"`
	Handsome   string `json:"handsome,omitempty"`
	Wealth     string `json:"wealth,omitempty"`
	Annoys     string `json:"annoys,omitempty"`
	Goals      string `json:"goals,omitempty"`
}

func (p *UserProfile) slot(f ProfileField) *string {
	switch f {
	case FieldName:
		return &p.Name
	case FieldSex:
		return &p.Sex
	case FieldAge:
		return &p.Age
	case FieldCity:
		return &p.City
	case FieldOccupation:
		return &p.Occupation
	case FieldHobby:
		return &p.Hobby
	case FieldHandsome:
		return &p.Handsome
	case FieldWealth:
		return &p.Wealth
	case FieldAnnoys:
		return &p.Annoys
	case FieldGoals:
		return &p.Goals
	}
	return nil
}

// Set stores value into field. Unknown fields are ignored.
func (p *UserProfile) Set(f ProfileField, value string) {
	if s := p.slot(f); s != nil {
		*s = value
	}
}

// Get returns the value of field.
func (p UserProfile) Get(f ProfileField) string {
	if s := p.slot(f); s != nil {
		return *s
	}
	return ""
}

// Summary renders the non-empty fields as "<label>: <value>" lines in fixed order.
func (p UserProfile) Summary() string {
	var b strings.Builder
	for f := FieldName; f <= FieldGoals; f++ {
		v := p.Get(f)
		if v == "" {
			continue
		}
		b.WriteString(f.Label())
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}
	return b.String()
}

func (p UserProfile) String() string {
	return p.Summary()
}
