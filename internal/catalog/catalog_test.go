package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	opportunities, err := Load()
	require.NoError(t, err)
	require.NotZero(t, opportunities.Len())

	seen := make(map[string]bool)
	for _, opp := range opportunities.Items {
		assert.False(t, seen[opp.ID], "duplicate id %q", opp.ID)
		seen[opp.ID] = true
		assert.NotEmpty(t, opp.Title)
		for _, req := range opp.Requirements {
			assert.Equal(t, req.Kind, ParseKind(string(req.Kind)), "kind %q must be normalized", req.Kind)
		}
	}

	assert.NotNil(t, opportunities.FindByID("prouni-2027"))
}

func TestEmbeddedCatalogHasOpenEntries(t *testing.T) {
	opportunities, err := Load()
	require.NoError(t, err)

	// The shipped catalog must survive the default deadline filter, or a
	// fresh install recommends nothing.
	now := time.Now()
	open := opportunities.Keep(func(opp *Opportunity) bool { return !opp.Expired(now) })
	assert.NotZero(t, open.Len())
}

func TestLoadFileRejectsInvalidEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	bad := `[{"id": "x-1", "title": "Sem categoria"}]`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x-1")
}

func TestLoadFileNormalizesUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `[{
		"id": "x-1",
		"title": "Exemplo",
		"category": "curso",
		"requirements": [{"kind": "grade-point", "description": "Nota mínima"}]
	}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	opportunities, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, opportunities.Len())
	assert.Equal(t, KindOther, opportunities.Items[0].Requirements[0].Kind)
}

func TestFindByIDsPreservesRequestedOrder(t *testing.T) {
	opportunities := &Opportunities{Items: []*Opportunity{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}}

	found := opportunities.FindByIDs([]string{"c", "missing", "a"})
	assert.Equal(t, []string{"c", "a"}, found.IDs())
}

func TestFilterByCategoryIsCaseInsensitive(t *testing.T) {
	opportunities := &Opportunities{Items: []*Opportunity{
		{ID: "a", Category: "bolsa"},
		{ID: "b", Category: "curso"},
	}}

	filtered := opportunities.FilterByCategory([]string{"BOLSA"})
	assert.Equal(t, []string{"a"}, filtered.IDs())

	assert.Equal(t, 2, opportunities.FilterByCategory(nil).Len())
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	past := &Opportunity{HasDeadline: true, Deadline: now.Add(-time.Hour)}
	future := &Opportunity{HasDeadline: true, Deadline: now.Add(time.Hour)}
	open := &Opportunity{}

	assert.True(t, past.Expired(now))
	assert.False(t, future.Expired(now))
	assert.False(t, open.Expired(now))
}

func TestRequirementAgeRange(t *testing.T) {
	// Payloads arrive as generic JSON maps with float64 numbers.
	req := &Requirement{Kind: KindAge, Value: map[string]any{"min": float64(14), "max": float64(24)}}

	rng, ok := req.AgeRange()
	require.True(t, ok)
	require.NotNil(t, rng.Min)
	require.NotNil(t, rng.Max)
	assert.Equal(t, 14, *rng.Min)
	assert.Equal(t, 24, *rng.Max)

	openEnded := &Requirement{Kind: KindAge, Value: map[string]any{"min": float64(18)}}
	rng, ok = openEnded.AgeRange()
	require.True(t, ok)
	assert.Nil(t, rng.Max)

	missing := &Requirement{Kind: KindAge}
	_, ok = missing.AgeRange()
	assert.False(t, ok)
}

func TestRequirementInterestTags(t *testing.T) {
	single := &Requirement{Kind: KindInterest, Value: "exatas"}
	tags, ok := single.InterestTags()
	require.True(t, ok)
	assert.Equal(t, []string{"exatas"}, tags)

	fromJSON := &Requirement{Kind: KindInterest, Value: []any{"exatas", "tecnologia"}}
	tags, ok = fromJSON.InterestTags()
	require.True(t, ok)
	assert.Equal(t, []string{"exatas", "tecnologia"}, tags)

	empty := &Requirement{Kind: KindInterest, Value: []any{}}
	_, ok = empty.InterestTags()
	assert.False(t, ok)
}
