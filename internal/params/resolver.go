// Package params resolves sparse per-species scoring parameter overrides
// against the feature defaults declared in the engine config. Resolution
// runs once per batch; the resolved parameters feed the precompiled scoring
// rules reused across every farm.
package params

import (
	"go.uber.org/zap"

	"github.com/diversiplant/recommender/internal/config"
	"github.com/diversiplant/recommender/internal/model"
)

// Resolved is the effective rule parameter set for one (species, feature).
type Resolved struct {
	ScoreMethod  string
	Weight       float64
	TrapLeftTol  float64
	TrapRightTol float64
}

// Index holds overrides keyed by species id then feature name.
type Index map[int]map[string]model.Override

// BuildIndex indexes override rows for O(1) lookup during rule compilation.
// Rows referencing a species absent from the catalog are malformed and
// ignored. Later rows for the same (species, feature) replace earlier ones.
func BuildIndex(rows []model.Override, catalog *model.SpeciesCatalog) Index {
	idx := make(Index)
	for _, row := range rows {
		if !catalog.Has(row.SpeciesID) {
			zap.L().Debug("params: ignoring override for unknown species",
				zap.Int("species_id", row.SpeciesID),
				zap.String("feature", row.Feature),
			)
			continue
		}
		byFeature, ok := idx[row.SpeciesID]
		if !ok {
			byFeature = make(map[string]model.Override)
			idx[row.SpeciesID] = byFeature
		}
		byFeature[row.Feature] = row
	}
	return idx
}

// Resolve merges the override for (speciesID, feature) with the feature
// defaults. Each field falls back independently: a present, non-missing
// override value wins, otherwise the config default applies (tolerances
// default to 0 when the feature declares none). An explicit override weight
// of 0 is honored; it is never replaced by a nonzero default.
func (idx Index) Resolve(feat config.FeatureSpec, speciesID int) Resolved {
	r := Resolved{
		ScoreMethod:  feat.ScoreMethod,
		Weight:       feat.DefaultWeight,
		TrapLeftTol:  feat.Tolerance.Left,
		TrapRightTol: feat.Tolerance.Right,
	}

	ov, ok := idx[speciesID][feat.Name]
	if !ok {
		return r
	}

	if ov.ScoreMethod != nil {
		r.ScoreMethod = *ov.ScoreMethod
	}
	if ov.Weight != nil {
		r.Weight = *ov.Weight
	}
	if ov.TrapLeftTol != nil {
		r.TrapLeftTol = *ov.TrapLeftTol
	}
	if ov.TrapRightTol != nil {
		r.TrapRightTol = *ov.TrapRightTol
	}
	return r
}
