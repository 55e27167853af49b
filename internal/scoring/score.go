package scoring

import (
	"github.com/rotisserie/eris"

	"github.com/diversiplant/recommender/internal/model"
)

// ScoreSpecies evaluates every precompiled rule for one species against one
// farm and aggregates the results into a weighted arithmetic mean.
//
// A feature contributes to the mean only when it produced a score (missing
// data yields a nil score) and its weight is positive; zero-weight features
// never enter numerator or denominator. When no feature contributes, the
// MCDA score is exactly 0.
func ScoreSpecies(farm model.FarmProfile, sp *model.SpeciesProfile, rules []Rule) (model.ScoredSpecies, error) {
	out := model.ScoredSpecies{
		ID:         sp.ID,
		Name:       sp.Name,
		CommonName: sp.CommonName,
		Traces:     make([]model.FeatureTrace, 0, len(rules)),
	}

	var numSum, denom float64
	for _, rule := range rules {
		farmVal := farm.Feature(rule.Feature)

		score, reason, err := evaluate(rule.Method, farmVal)
		if err != nil {
			return model.ScoredSpecies{}, eris.Wrapf(err, "scoring: feature %q", rule.Feature)
		}

		out.Traces = append(out.Traces, model.FeatureTrace{
			Feature:   rule.Feature,
			Short:     rule.Short,
			Type:      rule.Type,
			FarmValue: farmVal,
			Score:     score,
			Reason:    reason,
			Params:    rule.Params,
		})

		if score != nil && rule.Weight > 0 {
			numSum += rule.Weight * *score
			denom += rule.Weight
		}
	}

	if denom > 0 {
		out.MCDAScore = numSum / denom
	}
	return out, nil
}

// ScoreCandidates scores the candidate species in catalog order, keeping
// evaluation deterministic.
func ScoreCandidates(farm model.FarmProfile, catalog *model.SpeciesCatalog, candidateIDs []int, rulesBySpecies map[int][]Rule) ([]model.ScoredSpecies, error) {
	candidates := make(map[int]struct{}, len(candidateIDs))
	for _, id := range candidateIDs {
		candidates[id] = struct{}{}
	}

	scored := make([]model.ScoredSpecies, 0, len(candidateIDs))
	for _, sp := range catalog.All() {
		if _, ok := candidates[sp.ID]; !ok {
			continue
		}
		s, err := ScoreSpecies(farm, &sp, rulesBySpecies[sp.ID])
		if err != nil {
			return nil, err
		}
		scored = append(scored, s)
	}
	return scored, nil
}

// evaluate dispatches on the method variant. The default branch guards
// against new variants that were not wired through here; it is a
// configuration bug, not a data problem.
func evaluate(m Method, farmVal any) (*float64, string, error) {
	switch v := m.(type) {
	case NumRange:
		score, reason := scoreNumRange(v, farmVal)
		return score, reason, nil
	case Trapezoid:
		score, reason := scoreTrapezoid(v, farmVal)
		return score, reason, nil
	case CatExact:
		score, reason := scoreCatExact(v, farmVal)
		return score, reason, nil
	default:
		return nil, "", eris.Errorf("scoring: unhandled method variant %T", m)
	}
}

func scoreNumRange(m NumRange, farmVal any) (*float64, string) {
	if model.IsMissing(farmVal) {
		return nil, "missing farm data"
	}
	if m.Min == nil || m.Max == nil {
		return nil, "missing species data"
	}
	fv, ok := model.Float(farmVal)
	if !ok {
		return nil, "missing data"
	}

	switch {
	case fv < *m.Min:
		return ptr(0), "below minimum"
	case fv > *m.Max:
		return ptr(0), "above maximum"
	default:
		return ptr(1), "inside preferred range"
	}
}

func scoreTrapezoid(m Trapezoid, farmVal any) (*float64, string) {
	if model.IsMissing(farmVal) {
		return nil, "missing farm data"
	}
	if m.Corners == nil {
		return nil, "missing species data"
	}
	fv, ok := model.Float(farmVal)
	if !ok {
		return nil, "missing data"
	}

	score, reason := m.Corners.Score(fv)
	return &score, reason
}

func scoreCatExact(m CatExact, farmVal any) (*float64, string) {
	fv, ok := model.Str(farmVal)
	if !ok || len(m.Preferred) == 0 {
		return nil, "missing or no preference"
	}
	if model.SetContains(m.Preferred, fv) {
		return ptr(m.MatchScore), "exact match"
	}
	return ptr(0), "no match"
}

func ptr(v float64) *float64 { return &v }
