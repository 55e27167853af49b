package main

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/diversiplant/recommender/internal/config"
	"github.com/diversiplant/recommender/internal/loader"
	"github.com/diversiplant/recommender/internal/model"
	"github.com/diversiplant/recommender/internal/recommend"
)

// env bundles the loaded datasets and compiled engine shared by the
// subcommands.
type env struct {
	EngineCfg *config.EngineConfig
	Engine    *recommend.Engine
	Farms     []model.FarmProfile
}

// initEngine loads the engine document and datasets, then compiles the
// evaluation context. Configuration errors surface here, before any farm is
// evaluated.
func initEngine() (*env, error) {
	engineCfg, err := loadEngineConfig()
	if err != nil {
		return nil, err
	}

	species, err := loader.LoadSpecies(cfg.Data.SpeciesFile, engineCfg)
	if err != nil {
		return nil, eris.Wrap(err, "load species")
	}
	catalog := model.NewSpeciesCatalog(species)

	var overrides []model.Override
	if path := cfg.Data.ParamsFile; path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			zap.L().Warn("params file not found, using feature defaults", zap.String("path", path))
		} else if overrides, err = loader.LoadOverrides(path); err != nil {
			return nil, eris.Wrap(err, "load overrides")
		}
	}

	var dependencyRows []map[string]string
	if engineCfg.Dependency.Enabled && cfg.Data.DependenciesFile != "" {
		if dependencyRows, err = loader.LoadDependencyRows(cfg.Data.DependenciesFile, ""); err != nil {
			return nil, eris.Wrap(err, "load dependencies")
		}
	}

	engine, err := recommend.New(engineCfg, catalog, overrides, dependencyRows)
	if err != nil {
		return nil, err
	}

	farms, err := loader.LoadFarms(cfg.Data.FarmsFile, engineCfg)
	if err != nil {
		return nil, eris.Wrap(err, "load farms")
	}

	zap.L().Info("engine initialized",
		zap.Int("species", catalog.Len()),
		zap.Int("farms", len(farms)),
		zap.Int("overrides", len(overrides)),
		zap.Int("dependency_rows", len(dependencyRows)),
	)

	return &env{EngineCfg: engineCfg, Engine: engine, Farms: farms}, nil
}

// loadEngineConfig reads the engine file when present and falls back to the
// stock rule document otherwise.
func loadEngineConfig() (*config.EngineConfig, error) {
	path := cfg.Data.EngineFile
	if path == "" {
		return config.DefaultEngine(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		zap.L().Warn("engine file not found, using default rules", zap.String("path", path))
		return config.DefaultEngine(), nil
	}
	return config.LoadEngine(path)
}

// farmByID finds one farm in the loaded dataset.
func (e *env) farmByID(id int) (model.FarmProfile, bool) {
	for _, farm := range e.Farms {
		if farm.ID == id {
			return farm, true
		}
	}
	return model.FarmProfile{}, false
}
