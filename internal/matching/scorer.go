package matching

import (
	"math"

	"github.com/portoedu/porti/internal/catalog"
	"github.com/portoedu/porti/internal/profile"
)

const (
	// BaselinePercentage is returned for empty profiles and for
	// opportunities without requirements, instead of dividing by zero.
	BaselinePercentage = 50

	// FeaturedBoost is the additive bonus for featured opportunities.
	FeaturedBoost = 10

	emptyProfileReason = "Perfil não informado - análise básica"
)

// Result is the outcome of scoring one (profile, opportunity) pair.
// Reasons and UnmetRequired follow the opportunity's requirement order.
type Result struct {
	Percentage   int      `json:"percentage"`
	MatchedCount int      `json:"matched_count"`
	TotalCount   int      `json:"total_count"`
	Reasons      []string `json:"reasons,omitempty"`
	// UnmetRequired lists required requirements that are explicitly
	// unsatisfied. Optional misses and unknowns are not blockers and
	// stay out of this list.
	UnmetRequired []string `json:"unmet_required,omitempty"`
}

// Scorer aggregates per-requirement verdicts into a compatibility result.
type Scorer struct {
	evaluator     *Evaluator
	featuredBoost bool
}

// NewScorer builds a scorer around the given evaluator. A nil evaluator
// gets the built-in rules. featuredBoost toggles the presentation nudge
// for featured opportunities.
func NewScorer(evaluator *Evaluator, featuredBoost bool) *Scorer {
	if evaluator == nil {
		evaluator = NewEvaluator()
	}
	return &Scorer{evaluator: evaluator, featuredBoost: featuredBoost}
}

// Score is pure and total: any well-formed pair yields a result, never an
// error. Inputs are not mutated and repeated calls return identical results.
func (s *Scorer) Score(p *profile.Profile, opp *catalog.Opportunity) Result {
	total := len(opp.Requirements)

	if p.IsEmpty() {
		result := Result{
			Percentage: BaselinePercentage,
			TotalCount: total,
			Reasons:    []string{emptyProfileReason},
		}
		for _, req := range opp.Requirements {
			result.UnmetRequired = append(result.UnmetRequired, req.Description)
		}
		return result
	}

	result := Result{TotalCount: total}
	for i := range opp.Requirements {
		req := &opp.Requirements[i]

		switch s.evaluator.Evaluate(p, req).Verdict {
		case Satisfied:
			result.MatchedCount++
			result.Reasons = append(result.Reasons, req.Description)
		case Unsatisfied:
			if req.Required {
				result.UnmetRequired = append(result.UnmetRequired, req.Description)
			}
		case Unknown:
			// Unknown never blocks and never scores, even when the
			// requirement is marked required.
		}
	}

	if total > 0 {
		result.Percentage = int(math.Round(float64(result.MatchedCount) / float64(total) * 100))
	} else {
		result.Percentage = BaselinePercentage
	}

	if s.featuredBoost && opp.Featured && result.Percentage > 0 {
		result.Percentage = min(100, result.Percentage+FeaturedBoost)
	}

	return result
}

// Eligible reports whether no required requirement is explicitly
// unsatisfied. Unknown verdicts never disqualify: lack of information
// lowers the score but must not flip eligibility.
func (s *Scorer) Eligible(p *profile.Profile, opp *catalog.Opportunity) bool {
	if p.IsEmpty() {
		return true
	}

	for i := range opp.Requirements {
		req := &opp.Requirements[i]
		if !req.Required {
			continue
		}
		if s.evaluator.Evaluate(p, req).Verdict == Unsatisfied {
			return false
		}
	}
	return true
}
