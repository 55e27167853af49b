package exclusion

import (
	"sort"
	"strings"

	"github.com/diversiplant/recommender/internal/model"
)

// DefaultDependencyReason is attached when a focal species loses all its
// companion partners.
const DefaultDependencyReason = "excluded: no suitable host plant"

// Dependency row headers. Workbook exports carry stray whitespace around
// these, so lookup happens after trimming keys.
const (
	focalKey    = "Focal_species"
	partnersKey = "Good_tree_partners"
)

// ParseDependencyRows normalizes raw dependency rows into DependencyRules.
// Row keys and values are trimmed; rows without a focal species or without
// any usable partner are dropped.
func ParseDependencyRows(rows []map[string]string, defaultReason string) []model.DependencyRule {
	if defaultReason == "" {
		defaultReason = DefaultDependencyReason
	}

	var rules []model.DependencyRule
	for _, row := range rows {
		clean := make(map[string]string, len(row))
		for k, v := range row {
			clean[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}

		focal, ok := model.Str(clean[focalKey])
		if !ok {
			continue
		}
		partners := model.Set(clean[partnersKey])
		if len(partners) == 0 {
			continue
		}

		rules = append(rules, model.DependencyRule{
			Focal:    focal,
			Partners: partners,
			Reason:   defaultReason,
		})
	}
	return rules
}

// ApplyDependencies runs the companion-species filter over a Phase A result.
//
// The pass is deliberately single-shot, in rule order: for each rule whose
// focal species is still a candidate, the focal is removed unless at least
// one named partner is also a candidate. Mutually dependent species that are
// both candidates keep each other alive, and cyclic rule sets terminate
// because no rule is revisited. Ids only ever move from candidates to
// excluded.
func ApplyDependencies(res model.ExclusionResult, catalog *model.SpeciesCatalog, rules []model.DependencyRule) model.ExclusionResult {
	if len(rules) == 0 {
		return res
	}

	candidates := make(map[int]struct{}, len(res.CandidateIDs))
	for _, id := range res.CandidateIDs {
		candidates[id] = struct{}{}
	}

	excludedByID := make(map[int]int, len(res.Excluded))
	for i, ex := range res.Excluded {
		excludedByID[ex.ID] = i
	}

	for _, rule := range rules {
		focalID, ok := catalog.IDByName(rule.Focal)
		if !ok {
			continue
		}
		if _, isCandidate := candidates[focalID]; !isCandidate {
			continue
		}

		if dependencySatisfied(rule, catalog, candidates) {
			continue
		}

		delete(candidates, focalID)
		if i, already := excludedByID[focalID]; already {
			res.Excluded[i].Reasons = append(res.Excluded[i].Reasons, rule.Reason)
			continue
		}
		sp, _ := catalog.ByID(focalID)
		res.Excluded = append(res.Excluded, model.ExcludedSpecies{
			ID:         focalID,
			Name:       sp.Name,
			CommonName: sp.CommonName,
			Reasons:    []string{rule.Reason},
		})
		excludedByID[focalID] = len(res.Excluded) - 1
	}

	res.CandidateIDs = res.CandidateIDs[:0]
	for id := range candidates {
		res.CandidateIDs = append(res.CandidateIDs, id)
	}
	sort.Ints(res.CandidateIDs)
	return res
}

func dependencySatisfied(rule model.DependencyRule, catalog *model.SpeciesCatalog, candidates map[int]struct{}) bool {
	for _, partner := range rule.Partners {
		id, ok := catalog.IDByName(partner)
		if !ok {
			continue
		}
		if _, isCandidate := candidates[id]; isCandidate {
			return true
		}
	}
	return false
}
