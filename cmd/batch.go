package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diversiplant/recommender/internal/model"
	"github.com/diversiplant/recommender/internal/store"
)

var (
	batchFarmIDs []int
	batchSave    bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score many farms and print or persist the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEngine()
		if err != nil {
			return err
		}

		farms := e.Farms
		if len(batchFarmIDs) > 0 {
			farms = make([]model.FarmProfile, 0, len(batchFarmIDs))
			for _, id := range batchFarmIDs {
				farm, ok := e.farmByID(id)
				if !ok {
					return eris.Errorf("farm %d not found in %s", id, cfg.Data.FarmsFile)
				}
				farms = append(farms, farm)
			}
		}

		start := time.Now()
		results, err := e.Engine.EvaluateBatch(ctx, farms, cfg.Batch.MaxConcurrentFarms)
		if err != nil {
			return err
		}
		zap.L().Info("batch scored",
			zap.Int("farms", len(results)),
			zap.Duration("elapsed", time.Since(start)),
		)

		if batchSave {
			st, err := store.New(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			for _, result := range results {
				if err := st.ReplaceRecommendations(ctx, result); err != nil {
					return err
				}
			}
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	batchCmd.Flags().IntSliceVar(&batchFarmIDs, "farms", nil, "farm ids to score (default: all farms in the dataset)")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist results instead of printing them")
	rootCmd.AddCommand(batchCmd)
}
