// Package matching implements the compatibility scoring engine: a
// three-valued requirement evaluator, a per-opportunity scorer and a
// catalog ranker. Everything here is pure computation over immutable
// inputs; there is no I/O and no shared state.
package matching

import (
	"github.com/portoedu/porti/internal/catalog"
	"github.com/portoedu/porti/internal/profile"
)

// Verdict is the outcome of evaluating one requirement against a profile.
// Unknown is a distinct third state: the profile simply does not carry
// enough information to decide. It must never be collapsed into Satisfied
// or Unsatisfied.
type Verdict int

const (
	Unknown Verdict = iota
	Satisfied
	Unsatisfied
)

func (v Verdict) String() string {
	switch v {
	case Satisfied:
		return "satisfied"
	case Unsatisfied:
		return "unsatisfied"
	default:
		return "unknown"
	}
}

// AgeViolation tells the caller which bound of an age requirement was
// broken, so it can build a precise message instead of a generic one.
type AgeViolation int

const (
	AgeOK AgeViolation = iota
	AgeBelowMin
	AgeAboveMax
)

// Evaluation is the structured result of one requirement check.
type Evaluation struct {
	Verdict Verdict

	// AgeViolation and Bound are populated only for unsatisfied age
	// requirements: Bound holds the violated min or max value.
	AgeViolation AgeViolation
	Bound        int
}

func satisfied() Evaluation   { return Evaluation{Verdict: Satisfied} }
func unsatisfied() Evaluation { return Evaluation{Verdict: Unsatisfied} }
func unknown() Evaluation     { return Evaluation{Verdict: Unknown} }

// KindEvaluator scores a single requirement kind. Custom evaluators can be
// registered to enrich kinds the built-in evaluator leaves Unknown, such as
// income or educationLevel, without touching the core rules.
type KindEvaluator func(p *profile.Profile, req *catalog.Requirement) Evaluation

// Evaluator decides, for one (profile, requirement) pair, whether the
// requirement is satisfied, unsatisfied or unknown.
type Evaluator struct {
	overrides map[catalog.RequirementKind]KindEvaluator
}

func NewEvaluator() *Evaluator {
	return &Evaluator{overrides: make(map[catalog.RequirementKind]KindEvaluator)}
}

// Register installs a custom evaluator for the given kind, replacing the
// built-in rule.
func (e *Evaluator) Register(kind catalog.RequirementKind, fn KindEvaluator) {
	e.overrides[catalog.ParseKind(string(kind))] = fn
}

// Evaluate applies the per-kind rules. It is total: malformed or missing
// payloads degrade to Unknown, never to an error.
func (e *Evaluator) Evaluate(p *profile.Profile, req *catalog.Requirement) Evaluation {
	kind := req.NormalizedKind()

	if fn, ok := e.overrides[kind]; ok {
		return fn(p, req)
	}

	switch kind {
	case catalog.KindAge:
		return evaluateAge(p, req)
	case catalog.KindPublicSchool:
		return evaluatePublicSchool(p, req)
	case catalog.KindInterest:
		return evaluateInterest(p, req)
	default:
		// income, educationLevel, other: the structured profile never
		// carries enough to decide these automatically.
		return unknown()
	}
}

func evaluateAge(p *profile.Profile, req *catalog.Requirement) Evaluation {
	if p == nil || p.Age == nil {
		return unknown()
	}

	rng, ok := req.AgeRange()
	if !ok {
		return unknown()
	}

	age := *p.Age
	if rng.Min != nil && age < *rng.Min {
		return Evaluation{Verdict: Unsatisfied, AgeViolation: AgeBelowMin, Bound: *rng.Min}
	}
	if rng.Max != nil && age > *rng.Max {
		return Evaluation{Verdict: Unsatisfied, AgeViolation: AgeAboveMax, Bound: *rng.Max}
	}

	return satisfied()
}

func evaluatePublicSchool(p *profile.Profile, req *catalog.Requirement) Evaluation {
	if p == nil || p.PublicSchool == nil {
		return unknown()
	}

	wantsPublic, ok := req.PublicSchoolValue()
	if !ok {
		return unknown()
	}

	// The rule only ever gates on requiring public-school attendance.
	// A false payload means anyone qualifies, private school included.
	if !wantsPublic {
		return satisfied()
	}

	if *p.PublicSchool {
		return satisfied()
	}
	return unsatisfied()
}

func evaluateInterest(p *profile.Profile, req *catalog.Requirement) Evaluation {
	if p == nil || len(p.Interests) == 0 {
		return unknown()
	}

	tags, ok := req.InterestTags()
	if !ok {
		return unknown()
	}

	for _, tag := range tags {
		if p.HasInterest(tag) {
			return satisfied()
		}
	}
	return unsatisfied()
}
