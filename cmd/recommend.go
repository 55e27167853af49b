package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/diversiplant/recommender/internal/store"
)

var (
	recommendFarmID int
	recommendSave   bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Score one farm and print its recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEngine()
		if err != nil {
			return err
		}

		farm, ok := e.farmByID(recommendFarmID)
		if !ok {
			return eris.Errorf("farm %d not found in %s", recommendFarmID, cfg.Data.FarmsFile)
		}

		result, err := e.Engine.Evaluate(farm)
		if err != nil {
			return err
		}

		if recommendSave {
			st, err := store.New(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			if err := st.ReplaceRecommendations(cmd.Context(), result); err != nil {
				return err
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	recommendCmd.Flags().IntVar(&recommendFarmID, "farm", 0, "farm id to score (required)")
	recommendCmd.Flags().BoolVar(&recommendSave, "save", false, "persist the result, replacing prior rows for the farm")
	_ = recommendCmd.MarkFlagRequired("farm")
	rootCmd.AddCommand(recommendCmd)
}
