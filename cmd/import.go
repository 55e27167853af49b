package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Validate the configured datasets and rule document",
	Long:  "Loads the farm, species, parameter and dependency files, compiles the rule document and reports counts. Fails fast on configuration errors so deployment bugs surface before scoring.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEngine()
		if err != nil {
			return err
		}

		zap.L().Info("datasets valid",
			zap.Int("farms", len(e.Farms)),
			zap.Int("species", e.Engine.Catalog().Len()),
			zap.Int("features", len(e.EngineCfg.Features)),
			zap.Int("rules", len(e.EngineCfg.Rules)),
			zap.Bool("dependency_filter", e.EngineCfg.Dependency.Enabled),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
