package exclusion

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/diversiplant/recommender/internal/config"
	"github.com/diversiplant/recommender/internal/model"
)

// Rule is a compiled exclusion rule. Column indirection (direct name or
// symbolic key) is resolved once at compile time into the concrete column
// names; evaluation never branches on how the rule was declared.
type Rule struct {
	ID             string
	Op             Op
	FarmColumn     string
	SpeciesColumn  string
	Reason         string
	ReasonTemplate string
}

// Options controls reason annotation.
type Options struct {
	IncludeValues bool
}

// CompileRules resolves every rule spec in the engine config. Unknown
// operators or unresolvable columns are configuration errors and abort the
// batch before any farm is evaluated.
func CompileRules(cfg *config.EngineConfig) ([]Rule, error) {
	rules := make([]Rule, 0, len(cfg.Rules))
	for _, spec := range cfg.Rules {
		op, err := ParseOp(spec.Op)
		if err != nil {
			return nil, eris.Wrapf(err, "exclusion: rule %q", spec.ID)
		}

		farmCol := strings.TrimSpace(spec.FarmCol)
		if farmCol == "" {
			farmCol = cfg.FarmColumns[spec.Farm]
		}
		speciesCol := strings.TrimSpace(spec.SpeciesCol)
		if speciesCol == "" {
			speciesCol = cfg.SpeciesColumns[spec.Species]
		}
		if farmCol == "" {
			return nil, eris.Errorf("exclusion: rule %q: farm column not resolvable", spec.ID)
		}
		if speciesCol == "" {
			return nil, eris.Errorf("exclusion: rule %q: species column not resolvable", spec.ID)
		}

		reason := spec.Reason
		if reason == "" {
			reason = "excluded: rule failed"
		}

		rules = append(rules, Rule{
			ID:             spec.ID,
			Op:             op,
			FarmColumn:     farmCol,
			SpeciesColumn:  speciesCol,
			Reason:         reason,
			ReasonTemplate: spec.ReasonTemplate,
		})
	}
	return rules, nil
}

// Evaluate runs every compiled rule against every species for one farm.
// A species with at least one failed rule is excluded with all its reasons;
// rules that could not be evaluated contribute nothing. The returned
// candidate and excluded sets partition the catalog.
func Evaluate(farm model.FarmProfile, catalog *model.SpeciesCatalog, rules []Rule, opts Options) model.ExclusionResult {
	result := model.ExclusionResult{CandidateIDs: make([]int, 0, catalog.Len())}

	for _, sp := range catalog.All() {
		var reasons []string
		for _, rule := range rules {
			farmVal := farm.Feature(rule.FarmColumn)
			speciesVal := sp.Attr(rule.SpeciesColumn)

			pass, ok := rule.Op.Evaluate(farmVal, speciesVal)
			if !ok {
				continue // cannot evaluate, never exclude on missing data
			}
			if !pass {
				reasons = append(reasons, rule.annotate(farmVal, speciesVal, opts))
			}
		}

		if len(reasons) > 0 {
			result.Excluded = append(result.Excluded, model.ExcludedSpecies{
				ID:         sp.ID,
				Name:       sp.Name,
				CommonName: sp.CommonName,
				Reasons:    reasons,
			})
		} else {
			result.CandidateIDs = append(result.CandidateIDs, sp.ID)
		}
	}

	sort.Ints(result.CandidateIDs)
	return result
}

// annotate renders the exclusion reason, optionally appending the compared
// values for easier debugging.
func (r Rule) annotate(farmVal, speciesVal any, opts Options) string {
	base := r.Reason
	if t := strings.TrimSpace(r.ReasonTemplate); t != "" {
		base = strings.ReplaceAll(t, "{farm_val}", fmt.Sprint(farmVal))
		base = strings.ReplaceAll(base, "{species_val}", fmt.Sprint(speciesVal))
	}

	if !opts.IncludeValues {
		return base
	}

	switch {
	case r.Op.Numeric():
		return fmt.Sprintf("%s (farm=%v, threshold=%v)", base, farmVal, speciesVal)
	case r.Op == OpInSet:
		return fmt.Sprintf("%s (farm=%v, allowed=%v)", base, farmVal, speciesVal)
	case r.Op == OpRequiresTrue:
		return fmt.Sprintf("%s (farm_flag=%v, species_flag=%v)", base, farmVal, speciesVal)
	default:
		return base
	}
}
