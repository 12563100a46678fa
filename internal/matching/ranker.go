package matching

import (
	"sort"

	"github.com/portoedu/porti/internal/catalog"
	"github.com/portoedu/porti/internal/profile"
)

// Ranked pairs an opportunity with its compatibility result.
type Ranked struct {
	Opportunity *catalog.Opportunity `json:"opportunity"`
	Result      Result               `json:"result"`
}

// Ranker orders a catalog by compatibility with one profile snapshot.
type Ranker struct {
	scorer *Scorer
}

func NewRanker(scorer *Scorer) *Ranker {
	if scorer == nil {
		scorer = NewScorer(nil, true)
	}
	return &Ranker{scorer: scorer}
}

// Rank scores every opportunity and sorts descending by percentage.
// Ties keep the original catalog order; the sort is stable by contract.
func (r *Ranker) Rank(p *profile.Profile, opps *catalog.Opportunities) []Ranked {
	ranked := make([]Ranked, 0, opps.Len())
	for _, opp := range opps.Items {
		ranked = append(ranked, Ranked{Opportunity: opp, Result: r.scorer.Score(p, opp)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.Percentage > ranked[j].Result.Percentage
	})

	return ranked
}

// RankEligibleOnly drops opportunities with an explicitly violated required
// requirement before sorting. Unknown verdicts do not drop anything.
func (r *Ranker) RankEligibleOnly(p *profile.Profile, opps *catalog.Opportunities) []Ranked {
	eligible := opps.Keep(func(opp *catalog.Opportunity) bool {
		return r.scorer.Eligible(p, opp)
	})

	return r.Rank(p, eligible)
}

// Top returns the best n entries of an already ranked list. It is a plain
// slice of the ranking, used for the summarization hand-off.
func Top(ranked []Ranked, n int) []Ranked {
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
