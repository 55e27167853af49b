package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diversiplant/recommender/internal/model"
)

func TestBuildRecommendationsDenseRanks(t *testing.T) {
	scored := []model.ScoredSpecies{
		{ID: 4, Name: "d", MCDAScore: 0.70},
		{ID: 1, Name: "a", MCDAScore: 0.82},
		{ID: 3, Name: "c", MCDAScore: 0.76},
		{ID: 2, Name: "b", MCDAScore: 0.76},
	}

	got := BuildRecommendations(scored)

	require.Len(t, got, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(got))
	assert.Equal(t, []int{1, 2, 2, 3}, ranks(got))
}

func TestBuildRecommendationsTieBreakByID(t *testing.T) {
	scored := []model.ScoredSpecies{
		{ID: 9, MCDAScore: 0.5},
		{ID: 2, MCDAScore: 0.5},
		{ID: 5, MCDAScore: 0.5},
	}

	got := BuildRecommendations(scored)

	assert.Equal(t, []int{2, 5, 9}, ids(got))
	assert.Equal(t, []int{1, 1, 1}, ranks(got))
}

func TestBuildRecommendationsRanksBeforeRounding(t *testing.T) {
	// Scores that differ only past the third decimal are distinct for
	// ranking even though they present identically.
	scored := []model.ScoredSpecies{
		{ID: 1, MCDAScore: 0.70004},
		{ID: 2, MCDAScore: 0.70001},
	}

	got := BuildRecommendations(scored)

	assert.Equal(t, 0.7, got[0].ScoreMCDA)
	assert.Equal(t, 0.7, got[1].ScoreMCDA)
	assert.Equal(t, []int{1, 2}, ranks(got))
}

func TestBuildRecommendationsRoundsScores(t *testing.T) {
	got := BuildRecommendations([]model.ScoredSpecies{{ID: 1, MCDAScore: 2.0 / 3.0}})
	assert.Equal(t, 0.667, got[0].ScoreMCDA)
}

func TestBuildRecommendationsKeyReasons(t *testing.T) {
	half := 0.5
	scored := []model.ScoredSpecies{{
		ID: 1, Name: "Acacia koa", CommonName: "Koa", MCDAScore: 0.75,
		Traces: []model.FeatureTrace{
			{Short: "rain", Reason: "within plateau [900, 2000]", Score: &half},
			{Short: "soil", Reason: "Exact Match", Score: &half},
			{Short: "temp", Reason: "missing farm data"},
		},
	}}

	got := BuildRecommendations(scored)

	require.Len(t, got, 1)
	assert.Equal(t, []string{
		"rain:within plateau [900, 2000]",
		"soil:exact match",
		"temp:missing farm data",
	}, got[0].KeyReasons)
}

func TestBuildRecommendationsEmpty(t *testing.T) {
	got := BuildRecommendations(nil)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestBuildRecommendationsDoesNotMutateInput(t *testing.T) {
	scored := []model.ScoredSpecies{
		{ID: 2, MCDAScore: 0.3},
		{ID: 1, MCDAScore: 0.9},
	}

	BuildRecommendations(scored)

	assert.Equal(t, 2, scored[0].ID)
	assert.Equal(t, 1, scored[1].ID)
}

func TestFormatExcluded(t *testing.T) {
	got := FormatExcluded([]model.ExcludedSpecies{
		{ID: 7, Name: "Acacia koa", CommonName: "Koa", Reasons: []string{"excluded: rainfall below minimum"}},
	})

	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].SpeciesID)
	assert.Equal(t, -1.0, got[0].ScoreMCDA)
	assert.Equal(t, -1, got[0].RankOverall)
	assert.Equal(t, []string{"excluded: rainfall below minimum"}, got[0].KeyReasons)
}

func ids(entries []model.RecommendationEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.SpeciesID
	}
	return out
}

func ranks(entries []model.RecommendationEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.RankOverall
	}
	return out
}
