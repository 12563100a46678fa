package profile

import "strings"

// Profile holds the user's self-reported attributes. Every field is optional:
// a nil pointer or empty slice means "not answered", which is different from
// an explicit zero or false.
type Profile struct {
	Name         string   `mapstructure:"name"`
	Age          *int     `mapstructure:"age"`
	PublicSchool *bool    `mapstructure:"public-school"`
	Interests    []string `mapstructure:"interests"`
}

// IsEmpty reports whether no scoring-relevant field was provided at all.
// The display name alone does not make a profile usable for matching.
func (p *Profile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Age == nil && p.PublicSchool == nil && len(p.Interests) == 0
}

// HasInterest reports whether the profile lists the given tag,
// compared case-insensitively.
func (p *Profile) HasInterest(tag string) bool {
	if p == nil {
		return false
	}
	for _, interest := range p.Interests {
		if strings.EqualFold(strings.TrimSpace(interest), strings.TrimSpace(tag)) {
			return true
		}
	}
	return false
}
