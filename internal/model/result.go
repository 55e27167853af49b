package model

// ExcludedSpecies records one species removed from consideration, with every
// reason that fired.
type ExcludedSpecies struct {
	ID         int      `json:"id"`
	Name       string   `json:"species_name"`
	CommonName string   `json:"species_common_name"`
	Reasons    []string `json:"reasons"`
}

// ExclusionResult partitions the species catalog into surviving candidates
// and excluded species. After the rule phase the two sets are disjoint and
// together cover the whole catalog; the dependency phase may only move ids
// from candidates to excluded.
type ExclusionResult struct {
	CandidateIDs []int             `json:"candidate_ids"`
	Excluded     []ExcludedSpecies `json:"excluded_species"`
}

// FeatureTrace explains how a single feature contributed to a species score.
// Score is nil when the feature could not be evaluated (missing data); a nil
// score is distinct from an explicit 0.
type FeatureTrace struct {
	Feature   string         `json:"feature"`
	Short     string         `json:"short"`
	Type      string         `json:"type"`
	FarmValue any            `json:"farm_value"`
	Score     *float64       `json:"score"`
	Reason    string         `json:"reason"`
	Params    map[string]any `json:"params,omitempty"`
}

// ScoredSpecies is the scoring engine output for one candidate: the weighted
// MCDA score plus a full per-feature trace in config feature order.
type ScoredSpecies struct {
	ID         int            `json:"species_id"`
	Name       string         `json:"species_name"`
	CommonName string         `json:"species_common_name"`
	MCDAScore  float64        `json:"mcda_score"`
	Traces     []FeatureTrace `json:"features"`
}

// RecommendationEntry is the presentation record for one species. Excluded
// species reuse the same shape with ScoreMCDA and RankOverall set to the -1
// sentinels and KeyReasons carrying the exclusion reasons.
type RecommendationEntry struct {
	SpeciesID         int      `json:"species_id"`
	SpeciesName       string   `json:"species_name"`
	SpeciesCommonName string   `json:"species_common_name"`
	ScoreMCDA         float64  `json:"score_mcda"`
	RankOverall       int      `json:"rank_overall"`
	KeyReasons        []string `json:"key_reasons"`
}

// BatchResult is the full recommendation payload for one farm.
type BatchResult struct {
	FarmID          int                   `json:"farm_id"`
	TimestampUTC    string                `json:"timestamp_utc"`
	Recommendations []RecommendationEntry `json:"recommendations"`
	ExcludedSpecies []RecommendationEntry `json:"excluded_species"`
}
