package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diversiplant/recommender/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "recommender",
	Short: "Tree species suitability recommendations for farm plots",
	Long:  "Applies hard environmental exclusion rules and weighted MCDA scoring to recommend tree species for farm plots, with full per-feature explanations.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
