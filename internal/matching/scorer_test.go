package matching

import (
	"reflect"
	"testing"

	"github.com/portoedu/porti/internal/catalog"
	"github.com/portoedu/porti/internal/profile"
)

func fullProfile() *profile.Profile {
	return &profile.Profile{
		Age:          intPtr(17),
		PublicSchool: boolPtr(true),
		Interests:    []string{"technology"},
	}
}

func TestScoreFullMatch(t *testing.T) {
	scorer := NewScorer(nil, true)

	opp := &catalog.Opportunity{
		ID:    "opp1",
		Title: "Bootcamp",
		Requirements: []catalog.Requirement{
			{Kind: catalog.KindAge, Description: "14 anos ou mais", Required: true, Value: map[string]any{"min": 14}},
			{Kind: catalog.KindPublicSchool, Description: "escola pública", Required: true, Value: true},
			{Kind: catalog.KindInterest, Description: "interesse em tecnologia", Required: false, Value: []any{"technology", "science"}},
		},
	}

	result := scorer.Score(fullProfile(), opp)

	if result.MatchedCount != 3 || result.TotalCount != 3 {
		t.Fatalf("expected 3/3 matched, got %d/%d", result.MatchedCount, result.TotalCount)
	}
	if result.Percentage != 100 {
		t.Fatalf("expected 100%%, got %d", result.Percentage)
	}
	if len(result.UnmetRequired) != 0 {
		t.Fatalf("expected no blockers, got %v", result.UnmetRequired)
	}

	expectedReasons := []string{"14 anos ou mais", "escola pública", "interesse em tecnologia"}
	if !reflect.DeepEqual(result.Reasons, expectedReasons) {
		t.Fatalf("reasons out of order: %v", result.Reasons)
	}
}

func TestScoreRequiredAgeViolation(t *testing.T) {
	scorer := NewScorer(nil, true)

	opp := &catalog.Opportunity{
		ID: "adults-only",
		Requirements: []catalog.Requirement{
			{Kind: catalog.KindAge, Description: "maior de 18 anos", Required: true, Value: map[string]any{"min": 18}},
		},
	}

	result := scorer.Score(fullProfile(), opp)

	if result.MatchedCount != 0 {
		t.Fatalf("expected 0 matched, got %d", result.MatchedCount)
	}
	if len(result.UnmetRequired) != 1 || result.UnmetRequired[0] != "maior de 18 anos" {
		t.Fatalf("unexpected blockers: %v", result.UnmetRequired)
	}
	if scorer.Eligible(fullProfile(), opp) {
		t.Fatalf("expected opportunity to be ineligible")
	}
}

func TestScoreUnknownRequiredDoesNotBlock(t *testing.T) {
	scorer := NewScorer(nil, true)

	opp := &catalog.Opportunity{
		ID: "income-gated",
		Requirements: []catalog.Requirement{
			{Kind: catalog.KindIncome, Description: "renda baixa", Required: true},
		},
	}

	result := scorer.Score(fullProfile(), opp)

	if len(result.UnmetRequired) != 0 {
		t.Fatalf("unknown verdict must not appear as blocker, got %v", result.UnmetRequired)
	}
	if result.MatchedCount != 0 {
		t.Fatalf("unknown verdict must not score, got %d matched", result.MatchedCount)
	}
	if !scorer.Eligible(fullProfile(), opp) {
		t.Fatalf("unknown required requirement must not cause ineligibility")
	}
}

func TestScoreOptionalMissIsSilent(t *testing.T) {
	scorer := NewScorer(nil, true)

	opp := &catalog.Opportunity{
		ID: "opp",
		Requirements: []catalog.Requirement{
			{Kind: catalog.KindInterest, Description: "interesse em esportes", Required: false, Value: []any{"esportes"}},
		},
	}

	result := scorer.Score(fullProfile(), opp)

	if result.MatchedCount != 0 || len(result.UnmetRequired) != 0 || len(result.Reasons) != 0 {
		t.Fatalf("optional miss should be silent, got %+v", result)
	}
}

func TestScoreEmptyProfile(t *testing.T) {
	scorer := NewScorer(nil, true)

	opp := &catalog.Opportunity{
		ID:       "opp",
		Featured: true,
		Requirements: []catalog.Requirement{
			{Kind: catalog.KindAge, Description: "idade", Required: true, Value: map[string]any{"min": 14}},
			{Kind: catalog.KindInterest, Description: "interesse", Required: false, Value: []any{"tecnologia"}},
		},
	}

	result := scorer.Score(&profile.Profile{Name: "Ana"}, opp)

	if result.Percentage != BaselinePercentage {
		t.Fatalf("expected baseline %d, got %d (boost must not apply)", BaselinePercentage, result.Percentage)
	}
	if result.MatchedCount != 0 {
		t.Fatalf("expected 0 matched, got %d", result.MatchedCount)
	}
	if len(result.UnmetRequired) != len(opp.Requirements) {
		t.Fatalf("expected every requirement listed as unmet, got %v", result.UnmetRequired)
	}
	if len(result.Reasons) != 1 || result.Reasons[0] != emptyProfileReason {
		t.Fatalf("expected a single placeholder reason, got %v", result.Reasons)
	}
}

func TestScoreNoRequirementsUsesBaseline(t *testing.T) {
	scorer := NewScorer(nil, false)

	result := scorer.Score(fullProfile(), &catalog.Opportunity{ID: "open"})

	if result.Percentage != BaselinePercentage {
		t.Fatalf("expected baseline %d, got %d", BaselinePercentage, result.Percentage)
	}
	if result.TotalCount != 0 || result.MatchedCount != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
}

func TestScoreFeaturedBoost(t *testing.T) {
	scorer := NewScorer(nil, true)

	// 4 of 5 requirements matched gives a base of 80.
	opp := &catalog.Opportunity{
		ID:       "featured",
		Featured: true,
		Requirements: []catalog.Requirement{
			{Kind: catalog.KindAge, Description: "r1", Value: map[string]any{"min": 14}},
			{Kind: catalog.KindPublicSchool, Description: "r2", Value: true},
			{Kind: catalog.KindInterest, Description: "r3", Value: []any{"technology"}},
			{Kind: catalog.KindAge, Description: "r4", Value: map[string]any{"max": 30}},
			{Kind: catalog.KindInterest, Description: "r5", Value: []any{"esportes"}},
		},
	}

	result := scorer.Score(fullProfile(), opp)
	if result.Percentage != 90 {
		t.Fatalf("expected 80+10 boost = 90, got %d", result.Percentage)
	}

	// No boost when the base percentage is zero.
	zeroOpp := &catalog.Opportunity{
		ID:       "zero",
		Featured: true,
		Requirements: []catalog.Requirement{
			{Kind: catalog.KindInterest, Description: "r1", Value: []any{"esportes"}},
		},
	}
	if got := scorer.Score(fullProfile(), zeroOpp).Percentage; got != 0 {
		t.Fatalf("expected no boost at 0%%, got %d", got)
	}

	// Boost is capped at 100.
	capped := &catalog.Opportunity{
		ID:       "capped",
		Featured: true,
		Requirements: []catalog.Requirement{
			{Kind: catalog.KindAge, Description: "r1", Value: map[string]any{"min": 14}},
		},
	}
	if got := scorer.Score(fullProfile(), capped).Percentage; got != 100 {
		t.Fatalf("expected cap at 100, got %d", got)
	}
}

func TestScoreIdempotent(t *testing.T) {
	scorer := NewScorer(nil, true)

	opp := &catalog.Opportunity{
		ID: "opp",
		Requirements: []catalog.Requirement{
			{Kind: catalog.KindAge, Description: "idade", Required: true, Value: map[string]any{"min": 14}},
			{Kind: catalog.KindIncome, Description: "renda", Required: true},
		},
	}

	first := scorer.Score(fullProfile(), opp)
	second := scorer.Score(fullProfile(), opp)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scoring is not idempotent: %+v vs %+v", first, second)
	}
	if first.MatchedCount > first.TotalCount {
		t.Fatalf("matched %d exceeds total %d", first.MatchedCount, first.TotalCount)
	}
}
