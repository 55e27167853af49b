// Package config loads application configuration and the engine rule
// document, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the recommendation persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// DataConfig points at the input datasets and the engine rule document.
type DataConfig struct {
	FarmsFile        string `yaml:"farms_file" mapstructure:"farms_file"`
	SpeciesFile      string `yaml:"species_file" mapstructure:"species_file"`
	ParamsFile       string `yaml:"params_file" mapstructure:"params_file"`
	DependenciesFile string `yaml:"dependencies_file" mapstructure:"dependencies_file"`
	EngineFile       string `yaml:"engine_file" mapstructure:"engine_file"`
}

// BatchConfig tunes batch evaluation.
type BatchConfig struct {
	MaxConcurrentFarms int `yaml:"max_concurrent_farms" mapstructure:"max_concurrent_farms"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml and RECOMMENDER_* environment
// variables, applying defaults for anything unset.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RECOMMENDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "recommender.db")
	v.SetDefault("data.farms_file", "data/farms.csv")
	v.SetDefault("data.species_file", "data/species.csv")
	v.SetDefault("data.params_file", "data/species_params.csv")
	v.SetDefault("data.dependencies_file", "")
	v.SetDefault("data.engine_file", "config/engine.yaml")
	v.SetDefault("batch.max_concurrent_farms", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; env and defaults are enough to run.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, eris.Wrap(err, "config: read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger builds a zap logger from config and installs it globally.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
