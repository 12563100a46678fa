package filtering

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/portoedu/porti/internal/catalog"
)

type categoryFilter struct {
	categories []string
}

// NewCategory creates a filter that keeps only opportunities in the
// configured categories. With no categories configured it passes everything.
func NewCategory() Filter {
	return &categoryFilter{}
}

func (f *categoryFilter) Name() string { return "category" }

func (f *categoryFilter) Disable(string) {}

func (f *categoryFilter) IsEnabled() bool { return true }

func (f *categoryFilter) Validate(cfg *Config) error {
	f.categories = nil
	if cfg != nil {
		f.categories = append(f.categories, cfg.Categories...)
	}
	return nil
}

func (f *categoryFilter) Apply(_ context.Context, deps Deps, opps *catalog.Opportunities) (*catalog.Opportunities, Step, error) {
	initial := opps.Len()
	if len(f.categories) == 0 {
		return opps, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := opps.FilterByCategory(f.categories)
	if deps.Logger != nil && kept.Len() < initial {
		deps.Logger.Info("excluding opportunities outside configured categories",
			zap.Strings("categories", f.categories),
			zap.Int("opportunities_left", kept.Len()),
		)
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *categoryFilter) Status() Status {
	details := map[string]string{}
	if len(f.categories) > 0 {
		details["categories"] = strings.Join(f.categories, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type featuredFilter struct {
	featuredOnly bool
}

// NewFeatured creates a filter that keeps only featured opportunities when
// the configuration asks for it.
func NewFeatured() Filter {
	return &featuredFilter{}
}

func (f *featuredFilter) Name() string { return "featured" }

func (f *featuredFilter) Disable(string) {}

func (f *featuredFilter) IsEnabled() bool { return true }

func (f *featuredFilter) Validate(cfg *Config) error {
	f.featuredOnly = cfg != nil && cfg.FeaturedOnly
	return nil
}

func (f *featuredFilter) Apply(_ context.Context, deps Deps, opps *catalog.Opportunities) (*catalog.Opportunities, Step, error) {
	initial := opps.Len()
	if !f.featuredOnly {
		return opps, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := opps.FilterFeatured()
	if deps.Logger != nil && kept.Len() < initial {
		deps.Logger.Info("keeping featured opportunities only",
			zap.Int("opportunities_left", kept.Len()),
		)
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *featuredFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{
		"featured_only": strconv.FormatBool(f.featuredOnly),
	}}
}

type deadlineFilter struct {
	includeExpired bool
}

// NewDeadline creates a filter that removes opportunities whose deadline has
// already passed.
func NewDeadline() Filter {
	return &deadlineFilter{}
}

func (f *deadlineFilter) Name() string { return "deadline" }

func (f *deadlineFilter) Disable(string) {}

func (f *deadlineFilter) IsEnabled() bool { return true }

func (f *deadlineFilter) Validate(cfg *Config) error {
	f.includeExpired = cfg != nil && cfg.IncludeExpired
	return nil
}

func (f *deadlineFilter) Apply(_ context.Context, deps Deps, opps *catalog.Opportunities) (*catalog.Opportunities, Step, error) {
	initial := opps.Len()
	if f.includeExpired {
		return opps, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	now := deps.now()
	expired := make([]string, 0)
	kept := opps.Keep(func(opp *catalog.Opportunity) bool {
		if opp.Expired(now) {
			expired = append(expired, opp.ID)
			return false
		}
		return true
	})

	if deps.Logger != nil && len(expired) > 0 {
		deps.Logger.Info("excluding opportunities with passed deadlines",
			zap.Strings("excluded_opportunities", expired),
			zap.Int("opportunities_left", kept.Len()),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(expired), Left: kept.Len()}, nil
}

func (f *deadlineFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{
		"include_expired": strconv.FormatBool(f.includeExpired),
	}}
}

type eligibilityFilter struct {
	disabled bool
	reason   string
}

// NewEligibility creates a filter that removes opportunities with an
// explicitly violated required requirement. Unknown verdicts never drop
// anything; lack of profile information is not a disqualifier.
func NewEligibility() Filter {
	return &eligibilityFilter{}
}

func (f *eligibilityFilter) Name() string { return "eligibility" }

func (f *eligibilityFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *eligibilityFilter) IsEnabled() bool { return !f.disabled }

func (f *eligibilityFilter) Validate(cfg *Config) error {
	if cfg != nil && !cfg.EligibleOnly {
		f.Disable("eligible-only is not requested")
	}
	return nil
}

func (f *eligibilityFilter) Apply(_ context.Context, deps Deps, opps *catalog.Opportunities) (*catalog.Opportunities, Step, error) {
	initial := opps.Len()
	if deps.Scorer == nil {
		return opps, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	excluded := make([]string, 0)
	kept := opps.Keep(func(opp *catalog.Opportunity) bool {
		if deps.Scorer.Eligible(deps.Profile, opp) {
			return true
		}
		excluded = append(excluded, opp.ID)
		return false
	})

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding ineligible opportunities",
			zap.Strings("excluded_opportunities", excluded),
			zap.Int("opportunities_left", kept.Len()),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(excluded), Left: kept.Len()}, nil
}

func (f *eligibilityFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type minScoreFilter struct {
	minScore int
}

// NewMinScore creates a filter that drops opportunities scoring below the
// configured floor.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(string) {}

func (f *minScoreFilter) IsEnabled() bool { return true }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.minScore = 0
	if cfg != nil {
		f.minScore = cfg.MinScore
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, opps *catalog.Opportunities) (*catalog.Opportunities, Step, error) {
	initial := opps.Len()
	if f.minScore <= 0 || deps.Scorer == nil {
		return opps, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	excluded := make([]string, 0)
	kept := opps.Keep(func(opp *catalog.Opportunity) bool {
		if deps.Scorer.Score(deps.Profile, opp).Percentage >= f.minScore {
			return true
		}
		excluded = append(excluded, opp.ID)
		return false
	})

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding opportunities below minimum score",
			zap.Int("min_score", f.minScore),
			zap.Strings("excluded_opportunities", excluded),
			zap.Int("opportunities_left", kept.Len()),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(excluded), Left: kept.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{
		"min_score": strconv.Itoa(f.minScore),
	}}
}
