package loader

import (
	"go.uber.org/zap"

	"github.com/diversiplant/recommender/internal/model"
)

// Override CSV columns (long form: one row per species x feature).
const (
	colSpeciesID    = "species_id"
	colFeature      = "feature"
	colScoreMethod  = "score_method"
	colWeight       = "weight"
	colTrapLeftTol  = "trap_left_tol"
	colTrapRightTol = "trap_right_tol"
)

// LoadOverrides reads per-species scoring parameter overrides. Any field may
// be blank or NA; those resolve to nil pointers so the parameter resolver
// can distinguish "not set" from an explicit zero. Rows without a usable
// species id or feature name are dropped.
func LoadOverrides(path string) ([]model.Override, error) {
	rows, err := readCSVRecords(path)
	if err != nil {
		return nil, err
	}

	overrides := make([]model.Override, 0, len(rows))
	for _, row := range rows {
		id, idOK := parseID(row[colSpeciesID])
		feature, featOK := model.Str(row[colFeature])
		if !idOK || !featOK {
			zap.L().Warn("loader: skipping malformed override row",
				zap.String("species_id", row[colSpeciesID]),
				zap.String("feature", row[colFeature]),
			)
			continue
		}

		ov := model.Override{SpeciesID: id, Feature: feature}
		if m, ok := model.Str(row[colScoreMethod]); ok {
			ov.ScoreMethod = &m
		}
		ov.Weight = floatPtr(row[colWeight])
		ov.TrapLeftTol = floatPtr(row[colTrapLeftTol])
		ov.TrapRightTol = floatPtr(row[colTrapRightTol])

		overrides = append(overrides, ov)
	}
	return overrides, nil
}

// floatPtr parses a cell as a float, returning nil for missing or
// unparsable values so they fall back to defaults downstream.
func floatPtr(raw string) *float64 {
	f, ok := model.Float(raw)
	if !ok {
		return nil
	}
	return &f
}
