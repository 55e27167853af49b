// Package store persists recommendation results. Two backends are provided:
// SQLite for single-node deployments and Postgres for shared ones.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/diversiplant/recommender/internal/config"
	"github.com/diversiplant/recommender/internal/model"
)

// Store defines the persistence interface for recommendation payloads.
// ReplaceRecommendations swaps out every prior row for the farm in one
// transaction, so readers never observe a mix of old and new results.
type Store interface {
	ReplaceRecommendations(ctx context.Context, result model.BatchResult) error
	ListRecommendations(ctx context.Context, farmID int) ([]model.RecommendationEntry, error)

	Migrate(ctx context.Context) error
	Close() error
}

// New creates a Store from config, dispatching on the driver name.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
