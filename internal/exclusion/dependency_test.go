package exclusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diversiplant/recommender/internal/model"
)

func dependencyCatalog() *model.SpeciesCatalog {
	return model.NewSpeciesCatalog([]model.SpeciesProfile{
		{ID: 1, Name: "Santalum paniculatum", CommonName: "Sandalwood"},
		{ID: 2, Name: "Acacia koa", CommonName: "Koa"},
		{ID: 3, Name: "Metrosideros polymorpha", CommonName: "Ohia"},
	})
}

func candidates(ids ...int) model.ExclusionResult {
	return model.ExclusionResult{CandidateIDs: ids}
}

func TestParseDependencyRows(t *testing.T) {
	rows := []map[string]string{
		{" Focal_species ": " Santalum paniculatum ", "Good_tree_partners": "Acacia koa; Metrosideros polymorpha"},
		{"Focal_species": "", "Good_tree_partners": "Acacia koa"},
		{"Focal_species": "Acacia koa", "Good_tree_partners": "n/a"},
	}

	rules := ParseDependencyRows(rows, "")

	require.Len(t, rules, 1)
	assert.Equal(t, "Santalum paniculatum", rules[0].Focal)
	assert.Equal(t, []string{"Acacia koa", "Metrosideros polymorpha"}, rules[0].Partners)
	assert.Equal(t, DefaultDependencyReason, rules[0].Reason)
}

func TestApplyDependenciesPartnerPresent(t *testing.T) {
	rules := []model.DependencyRule{
		{Focal: "Santalum paniculatum", Partners: []string{"Acacia koa"}, Reason: DefaultDependencyReason},
	}

	res := ApplyDependencies(candidates(1, 2, 3), dependencyCatalog(), rules)

	assert.Equal(t, []int{1, 2, 3}, res.CandidateIDs)
	assert.Empty(t, res.Excluded)
}

func TestApplyDependenciesPartnerMissing(t *testing.T) {
	rules := []model.DependencyRule{
		{Focal: "Santalum paniculatum", Partners: []string{"Acacia koa"}, Reason: DefaultDependencyReason},
	}

	// Koa never made it past the hard rules, so sandalwood loses its host.
	res := ApplyDependencies(candidates(1, 3), dependencyCatalog(), rules)

	assert.Equal(t, []int{3}, res.CandidateIDs)
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, 1, res.Excluded[0].ID)
	assert.Equal(t, []string{"excluded: no suitable host plant"}, res.Excluded[0].Reasons)
}

func TestApplyDependenciesMutualSurvive(t *testing.T) {
	rules := []model.DependencyRule{
		{Focal: "Santalum paniculatum", Partners: []string{"Acacia koa"}, Reason: DefaultDependencyReason},
		{Focal: "Acacia koa", Partners: []string{"Santalum paniculatum"}, Reason: DefaultDependencyReason},
	}

	// Both candidates at the start of the pass, so each satisfies the other.
	res := ApplyDependencies(candidates(1, 2), dependencyCatalog(), rules)

	assert.Equal(t, []int{1, 2}, res.CandidateIDs)
	assert.Empty(t, res.Excluded)
}

func TestApplyDependenciesChainIsSinglePass(t *testing.T) {
	rules := []model.DependencyRule{
		{Focal: "Santalum paniculatum", Partners: []string{"Acacia koa"}, Reason: DefaultDependencyReason},
		{Focal: "Metrosideros polymorpha", Partners: []string{"Santalum paniculatum"}, Reason: DefaultDependencyReason},
	}

	// Koa is not a candidate: sandalwood drops first, then ohia drops because
	// sandalwood is already gone when its rule runs. Rule order matters; the
	// filter never re-runs earlier rules.
	res := ApplyDependencies(candidates(1, 3), dependencyCatalog(), rules)

	assert.Empty(t, res.CandidateIDs)
	assert.Len(t, res.Excluded, 2)
}

func TestApplyDependenciesPreservesEarlierExclusions(t *testing.T) {
	rules := []model.DependencyRule{
		{Focal: "Santalum paniculatum", Partners: []string{"Acacia koa"}, Reason: DefaultDependencyReason},
	}
	res := model.ExclusionResult{
		CandidateIDs: []int{1},
		Excluded: []model.ExcludedSpecies{
			{ID: 2, Name: "Acacia koa", Reasons: []string{"excluded: rainfall below minimum"}},
		},
	}

	got := ApplyDependencies(res, dependencyCatalog(), rules)

	assert.Empty(t, got.CandidateIDs)
	require.Len(t, got.Excluded, 2)
	assert.Equal(t, []string{"excluded: rainfall below minimum"}, got.Excluded[0].Reasons)
	assert.Equal(t, []string{DefaultDependencyReason}, got.Excluded[1].Reasons)
}

func TestApplyDependenciesUnknownNamesIgnored(t *testing.T) {
	rules := []model.DependencyRule{
		{Focal: "Unknown focal", Partners: []string{"Acacia koa"}, Reason: DefaultDependencyReason},
		{Focal: "Santalum paniculatum", Partners: []string{"Unknown partner", "Acacia koa"}, Reason: DefaultDependencyReason},
	}

	res := ApplyDependencies(candidates(1, 2), dependencyCatalog(), rules)

	assert.Equal(t, []int{1, 2}, res.CandidateIDs)
	assert.Empty(t, res.Excluded)
}

func TestApplyDependenciesNoRules(t *testing.T) {
	res := ApplyDependencies(candidates(1, 2, 3), dependencyCatalog(), nil)
	assert.Equal(t, []int{1, 2, 3}, res.CandidateIDs)
}
