// Package scoring evaluates candidate species against a farm profile using
// precompiled per-species rules and aggregates the per-feature scores into a
// weighted MCDA score with a full explanation trace.
package scoring

import (
	"github.com/rotisserie/eris"

	"github.com/diversiplant/recommender/internal/config"
	"github.com/diversiplant/recommender/internal/model"
	"github.com/diversiplant/recommender/internal/params"
)

// Method is the sealed scoring-shape union. Evaluation type-switches over
// the three variants; anything else is a configuration error, never a
// silent skip.
type Method interface {
	method()
}

// NumRange scores 1.0 inside the species preference range [Min, Max] and
// 0.0 outside. Nil bounds mean the species has no data for the feature.
type NumRange struct {
	Min, Max *float64
}

// Trapezoid scores by fuzzy membership. Corners is nil when the species
// bounds were missing; every evaluation then yields "missing species data".
type Trapezoid struct {
	Corners *Corners
}

// CatExact scores MatchScore when the farm value is in the preference set
// and 0.0 otherwise.
type CatExact struct {
	Preferred  []string
	MatchScore float64
}

func (NumRange) method()  {}
func (Trapezoid) method() {}
func (CatExact) method()  {}

// Rule is one precompiled scoring rule for a (species, feature) pair:
// resolved weight, method variant with its resolved arguments, and the
// presentation metadata carried into traces.
type Rule struct {
	Feature string
	Short   string
	Type    string
	Weight  float64
	Method  Method
	Params  map[string]any
}

// CompileRules resolves parameters and species preference data into one rule
// list per species, in config feature order. It runs once per batch; the
// result is shared read-only across farms. Unknown scoring methods —
// including ones smuggled in through overrides — are configuration errors.
func CompileRules(catalog *model.SpeciesCatalog, idx params.Index, cfg *config.EngineConfig) (map[int][]Rule, error) {
	rulesBySpecies := make(map[int][]Rule, catalog.Len())

	for _, sp := range catalog.All() {
		rules := make([]Rule, 0, len(cfg.Features))
		for _, feat := range cfg.Features {
			resolved := idx.Resolve(feat, sp.ID)

			rule, err := compileRule(&sp, feat, resolved)
			if err != nil {
				return nil, eris.Wrapf(err, "scoring: species %d feature %q", sp.ID, feat.Name)
			}
			rules = append(rules, rule)
		}
		rulesBySpecies[sp.ID] = rules
	}
	return rulesBySpecies, nil
}

func compileRule(sp *model.SpeciesProfile, feat config.FeatureSpec, resolved params.Resolved) (Rule, error) {
	rule := Rule{
		Feature: feat.Name,
		Short:   feat.Short,
		Type:    feat.Type,
		Weight:  resolved.Weight,
	}

	switch feat.Type {
	case config.TypeNumeric:
		min, minOK := model.Float(sp.Attr(feat.MinColumn()))
		max, maxOK := model.Float(sp.Attr(feat.MaxColumn()))

		switch resolved.ScoreMethod {
		case config.MethodNumRange:
			m := NumRange{}
			if minOK {
				m.Min = &min
			}
			if maxOK {
				m.Max = &max
			}
			rule.Method = m
			rule.Params = map[string]any{"min": m.Min, "max": m.Max, "weight": resolved.Weight}

		case config.MethodTrapezoid:
			m := Trapezoid{}
			if minOK && maxOK {
				corners, err := DeriveCorners(min, max, resolved.TrapLeftTol, resolved.TrapRightTol)
				if err != nil {
					return Rule{}, err
				}
				m.Corners = &corners
			}
			rule.Method = m
			rule.Params = map[string]any{
				"left_tol":  resolved.TrapLeftTol,
				"right_tol": resolved.TrapRightTol,
				"weight":    resolved.Weight,
			}
			if m.Corners != nil {
				rule.Params["a"] = m.Corners.A
				rule.Params["b"] = m.Corners.B
				rule.Params["c"] = m.Corners.C
				rule.Params["d"] = m.Corners.D
			}

		default:
			return Rule{}, eris.Errorf("unknown numeric score method %q", resolved.ScoreMethod)
		}

	case config.TypeCategorical:
		switch resolved.ScoreMethod {
		case config.MethodCatExact:
			m := CatExact{
				Preferred:  model.Set(sp.Attr(feat.PreferredColumn())),
				MatchScore: feat.ExactMatchScore(),
			}
			rule.Method = m
			rule.Params = map[string]any{
				"preferred":   m.Preferred,
				"exact_match": m.MatchScore,
				"weight":      resolved.Weight,
			}

		default:
			return Rule{}, eris.Errorf("unknown categorical score method %q", resolved.ScoreMethod)
		}

	default:
		return Rule{}, eris.Errorf("unknown feature type %q", feat.Type)
	}

	return rule, nil
}
