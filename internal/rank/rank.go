// Package rank orders scored species deterministically and shapes them into
// presentation records.
package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/diversiplant/recommender/internal/model"
)

// Sentinel values marking excluded species in uniform-shape records.
const (
	ExcludedScore = -1.0
	ExcludedRank  = -1
)

// BuildRecommendations sorts scored species by score descending with species
// id ascending as the tie-breaker, assigns dense ranks on strict score
// equality, and projects each feature trace into a "shortcode:reason" token
// in trace (config feature) order. Scores are rounded to 3 decimals for
// presentation; ranking happens on the unrounded values.
func BuildRecommendations(scored []model.ScoredSpecies) []model.RecommendationEntry {
	ordered := make([]model.ScoredSpecies, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].MCDAScore != ordered[j].MCDAScore {
			return ordered[i].MCDAScore > ordered[j].MCDAScore
		}
		return ordered[i].ID < ordered[j].ID
	})

	entries := make([]model.RecommendationEntry, 0, len(ordered))
	rank := 0
	lastScore := math.NaN()
	for _, sp := range ordered {
		if sp.MCDAScore != lastScore {
			rank++
			lastScore = sp.MCDAScore
		}

		entries = append(entries, model.RecommendationEntry{
			SpeciesID:         sp.ID,
			SpeciesName:       sp.Name,
			SpeciesCommonName: sp.CommonName,
			ScoreMCDA:         round3(sp.MCDAScore),
			RankOverall:       rank,
			KeyReasons:        keyReasons(sp.Traces),
		})
	}
	return entries
}

// FormatExcluded shapes excluded species as uniform records carrying the -1
// sentinels instead of a score and rank.
func FormatExcluded(excluded []model.ExcludedSpecies) []model.RecommendationEntry {
	entries := make([]model.RecommendationEntry, 0, len(excluded))
	for _, ex := range excluded {
		entries = append(entries, model.RecommendationEntry{
			SpeciesID:         ex.ID,
			SpeciesName:       ex.Name,
			SpeciesCommonName: ex.CommonName,
			ScoreMCDA:         ExcludedScore,
			RankOverall:       ExcludedRank,
			KeyReasons:        append([]string(nil), ex.Reasons...),
		})
	}
	return entries
}

func keyReasons(traces []model.FeatureTrace) []string {
	reasons := make([]string, 0, len(traces))
	for _, tr := range traces {
		reasons = append(reasons, tr.Short+":"+strings.ToLower(tr.Reason))
	}
	return reasons
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
