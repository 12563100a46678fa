package catalog

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// RequirementKind is the closed enumeration of requirement types the
// evaluator understands. Anything else normalizes to KindOther.
type RequirementKind string

const (
	KindAge            RequirementKind = "age"
	KindEducationLevel RequirementKind = "educationLevel"
	KindPublicSchool   RequirementKind = "publicSchool"
	KindIncome         RequirementKind = "income"
	KindInterest       RequirementKind = "interest"
	KindOther          RequirementKind = "other"
)

// ParseKind maps a raw kind string to a known RequirementKind.
// Unrecognized kinds are never rejected; they fall back to KindOther.
func ParseKind(raw string) RequirementKind {
	switch RequirementKind(strings.TrimSpace(raw)) {
	case KindAge, KindEducationLevel, KindPublicSchool, KindIncome, KindInterest, KindOther:
		return RequirementKind(strings.TrimSpace(raw))
	default:
		return KindOther
	}
}

// AgeRange is the payload of an age requirement. Either bound may be
// absent, meaning unbounded on that side.
type AgeRange struct {
	Min *int `json:"min,omitempty" mapstructure:"min"`
	Max *int `json:"max,omitempty" mapstructure:"max"`
}

// Requirement is one eligibility or relevance criterion attached to an
// opportunity. Value carries a kind-specific payload and is decoded through
// the typed accessors below; callers never inspect it directly.
type Requirement struct {
	Kind        RequirementKind `json:"kind"`
	Description string          `json:"description" validate:"required"`
	Required    bool            `json:"required"`
	Value       any             `json:"value,omitempty"`
}

// NormalizedKind returns the requirement kind with unknown values collapsed
// to KindOther.
func (r *Requirement) NormalizedKind() RequirementKind {
	return ParseKind(string(r.Kind))
}

// AgeRange decodes the value payload of an age requirement. The second
// return is false when the payload is absent or not an age range.
func (r *Requirement) AgeRange() (*AgeRange, bool) {
	if r.Value == nil {
		return nil, false
	}

	// JSON numbers decode as float64, so the bounds need weak typing.
	var rng AgeRange
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rng,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, false
	}
	if err := decoder.Decode(r.Value); err != nil {
		return nil, false
	}

	if rng.Min == nil && rng.Max == nil {
		return nil, false
	}

	return &rng, true
}

// PublicSchoolValue decodes the boolean payload of a publicSchool
// requirement.
func (r *Requirement) PublicSchoolValue() (bool, bool) {
	v, ok := r.Value.(bool)
	return v, ok
}

// InterestTags decodes the accepted tag set of an interest requirement.
// A single string payload is treated as a one-element set.
func (r *Requirement) InterestTags() ([]string, bool) {
	switch v := r.Value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, false
		}
		return []string{v}, true
	case []string:
		if len(v) == 0 {
			return nil, false
		}
		return v, true
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				tags = append(tags, s)
			}
		}
		if len(tags) == 0 {
			return nil, false
		}
		return tags, true
	default:
		return nil, false
	}
}

// Opportunity is one catalog entry. Entries are immutable once loaded;
// the matching core never mutates them.
type Opportunity struct {
	ID               string        `json:"id" validate:"required"`
	Title            string        `json:"title" validate:"required"`
	Category         string        `json:"category" validate:"required,oneof=bolsa intercambio curso olimpiada estagio pesquisa pos idioma empreendedorismo"`
	Icon             string        `json:"icon,omitempty"`
	ShortDescription string        `json:"short_description,omitempty"`
	FullDescription  string        `json:"full_description,omitempty"`
	Modality         string        `json:"modality,omitempty"`
	Cost             string        `json:"cost,omitempty"`
	Requirements     []Requirement `json:"requirements,omitempty" validate:"dive"`
	TargetAudience   string        `json:"target_audience,omitempty"`
	MainBenefit      string        `json:"main_benefit,omitempty"`
	OfficialLink     string        `json:"official_link,omitempty" validate:"omitempty,url"`
	Deadline         time.Time     `json:"deadline,omitempty"`
	HasDeadline      bool          `json:"has_deadline,omitempty"`
	Tags             []string      `json:"tags,omitempty"`
	Featured         bool          `json:"featured,omitempty"`
}

// Expired reports whether the opportunity's deadline has already passed
// relative to now. Entries without a deadline never expire.
func (o *Opportunity) Expired(now time.Time) bool {
	return o.HasDeadline && o.Deadline.Before(now)
}

type Opportunities struct {
	Items []*Opportunity
}

func (o *Opportunities) Len() int {
	return len(o.Items)
}

func (o *Opportunities) IDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, opp := range o.Items {
		ids = append(ids, opp.ID)
	}
	return ids
}

func (o *Opportunities) FindByID(id string) *Opportunity {
	for _, opp := range o.Items {
		if opp.ID == id {
			return opp
		}
	}
	return nil
}

// FindByIDs returns the opportunities matching the given ids, preserving
// the order of the ids. Unknown ids are skipped.
func (o *Opportunities) FindByIDs(ids []string) *Opportunities {
	found := &Opportunities{}
	for _, id := range ids {
		if opp := o.FindByID(id); opp != nil {
			found.Items = append(found.Items, opp)
		}
	}
	return found
}

// Keep returns a new collection containing only items the predicate accepts.
// Catalog order is preserved.
func (o *Opportunities) Keep(match func(*Opportunity) bool) *Opportunities {
	kept := &Opportunities{}
	for _, opp := range o.Items {
		if match(opp) {
			kept.Items = append(kept.Items, opp)
		}
	}
	return kept
}

func (o *Opportunities) FilterByCategory(categories []string) *Opportunities {
	if len(categories) == 0 {
		return o
	}
	return o.Keep(func(opp *Opportunity) bool {
		for _, category := range categories {
			if strings.EqualFold(opp.Category, category) {
				return true
			}
		}
		return false
	})
}

func (o *Opportunities) FilterFeatured() *Opportunities {
	return o.Keep(func(opp *Opportunity) bool { return opp.Featured })
}

func (o *Opportunities) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "opportunities_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return "", err
	}
	return file.Name(), nil
}
