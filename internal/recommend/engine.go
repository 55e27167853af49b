// Package recommend composes exclusion, scoring and ranking into per-farm
// recommendation payloads. An Engine is built once per batch; everything it
// holds is read-only afterwards, so farms may be evaluated concurrently.
package recommend

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/diversiplant/recommender/internal/config"
	"github.com/diversiplant/recommender/internal/exclusion"
	"github.com/diversiplant/recommender/internal/model"
	"github.com/diversiplant/recommender/internal/params"
	"github.com/diversiplant/recommender/internal/rank"
	"github.com/diversiplant/recommender/internal/scoring"
)

// Engine holds the shared, immutable evaluation context: the species
// catalog, the compiled exclusion rules, the per-species scoring rules and
// the parsed dependency rules.
type Engine struct {
	cfg            *config.EngineConfig
	catalog        *model.SpeciesCatalog
	exclusionRules []exclusion.Rule
	scoringRules   map[int][]scoring.Rule
	dependencies   []model.DependencyRule

	now func() time.Time
}

// New compiles the engine context. Rule compilation surfaces configuration
// errors (unknown operators, methods or types) here, before any farm is
// touched; such errors abort the whole batch.
func New(cfg *config.EngineConfig, catalog *model.SpeciesCatalog, overrides []model.Override, dependencyRows []map[string]string) (*Engine, error) {
	exclusionRules, err := exclusion.CompileRules(cfg)
	if err != nil {
		return nil, eris.Wrap(err, "recommend: compile exclusion rules")
	}

	idx := params.BuildIndex(overrides, catalog)
	scoringRules, err := scoring.CompileRules(catalog, idx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "recommend: compile scoring rules")
	}

	var dependencies []model.DependencyRule
	if cfg.Dependency.Enabled {
		dependencies = exclusion.ParseDependencyRows(dependencyRows, cfg.Dependency.Reason)
	}

	return &Engine{
		cfg:            cfg,
		catalog:        catalog,
		exclusionRules: exclusionRules,
		scoringRules:   scoringRules,
		dependencies:   dependencies,
		now:            time.Now,
	}, nil
}

// Catalog exposes the shared species catalog.
func (e *Engine) Catalog() *model.SpeciesCatalog { return e.catalog }

// Exclude runs the exclusion phases for one farm. When exclusions are
// disabled the whole catalog survives as candidates.
func (e *Engine) Exclude(farm model.FarmProfile) model.ExclusionResult {
	if !e.cfg.EnableExclusions {
		ids := make([]int, 0, e.catalog.Len())
		for _, sp := range e.catalog.All() {
			ids = append(ids, sp.ID)
		}
		return model.ExclusionResult{CandidateIDs: ids}
	}

	res := exclusion.Evaluate(farm, e.catalog, e.exclusionRules, exclusion.Options{
		IncludeValues: e.cfg.Annotation.IncludeValues,
	})
	if e.cfg.Dependency.Enabled && len(e.dependencies) > 0 {
		res = exclusion.ApplyDependencies(res, e.catalog, e.dependencies)
	}
	return res
}

// Evaluate produces the recommendation payload for one farm. A farm with no
// surviving candidates yields an empty recommendation list and a populated
// excluded list, not an error.
func (e *Engine) Evaluate(farm model.FarmProfile) (model.BatchResult, error) {
	excl := e.Exclude(farm)

	scored, err := scoring.ScoreCandidates(farm, e.catalog, excl.CandidateIDs, e.scoringRules)
	if err != nil {
		return model.BatchResult{}, eris.Wrapf(err, "recommend: farm %d", farm.ID)
	}

	return model.BatchResult{
		FarmID:          farm.ID,
		TimestampUTC:    e.now().UTC().Truncate(time.Second).Format(time.RFC3339),
		Recommendations: rank.BuildRecommendations(scored),
		ExcludedSpecies: rank.FormatExcluded(excl.Excluded),
	}, nil
}

// EvaluateBatch evaluates many farms, up to maxConcurrent at a time. Results
// are positioned by input index, so output order always matches input farm
// order regardless of completion order.
func (e *Engine) EvaluateBatch(ctx context.Context, farms []model.FarmProfile, maxConcurrent int) ([]model.BatchResult, error) {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	results := make([]model.BatchResult, len(farms))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, farm := range farms {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Evaluate(farm)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("recommend: batch complete",
		zap.Int("farms", len(farms)),
		zap.Int("species", e.catalog.Len()),
	)
	return results, nil
}
