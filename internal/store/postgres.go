package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/diversiplant/recommender/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore implements Store using a pgx connection pool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}

	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS recommendations (
	id                  UUID PRIMARY KEY,
	farm_id             INTEGER NOT NULL,
	species_id          INTEGER NOT NULL,
	species_name        TEXT,
	species_common_name TEXT,
	score_mcda          DOUBLE PRECISION NOT NULL,
	rank_overall        INTEGER NOT NULL,
	key_reasons         JSONB NOT NULL,
	excluded            BOOLEAN NOT NULL DEFAULT FALSE,
	generated_at        TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recommendations_farm_id ON recommendations(farm_id);
CREATE INDEX IF NOT EXISTS idx_recommendations_species_id ON recommendations(species_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) ReplaceRecommendations(ctx context.Context, result model.BatchResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM recommendations WHERE farm_id = $1`, result.FarmID); err != nil {
		return eris.Wrap(err, "postgres: delete prior recommendations")
	}

	insert := func(entry model.RecommendationEntry, excluded bool) error {
		reasons, err := json.Marshal(entry.KeyReasons)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal key reasons")
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO recommendations
				(id, farm_id, species_id, species_name, species_common_name,
				 score_mcda, rank_overall, key_reasons, excluded, generated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			uuid.New().String(), result.FarmID, entry.SpeciesID, entry.SpeciesName,
			entry.SpeciesCommonName, entry.ScoreMCDA, entry.RankOverall,
			string(reasons), excluded, result.TimestampUTC,
		)
		return eris.Wrap(err, "postgres: insert recommendation")
	}

	for _, entry := range result.Recommendations {
		if err := insert(entry, false); err != nil {
			return err
		}
	}
	for _, entry := range result.ExcludedSpecies {
		if err := insert(entry, true); err != nil {
			return err
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit")
}

func (s *PostgresStore) ListRecommendations(ctx context.Context, farmID int) ([]model.RecommendationEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT species_id, species_name, species_common_name, score_mcda, rank_overall, key_reasons
		FROM recommendations
		WHERE farm_id = $1
		ORDER BY excluded, rank_overall, species_id`, farmID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list recommendations")
	}
	defer rows.Close()

	var entries []model.RecommendationEntry
	for rows.Next() {
		var entry model.RecommendationEntry
		var reasons []byte
		if err := rows.Scan(&entry.SpeciesID, &entry.SpeciesName, &entry.SpeciesCommonName,
			&entry.ScoreMCDA, &entry.RankOverall, &reasons); err != nil {
			return nil, eris.Wrap(err, "postgres: scan recommendation")
		}
		if err := json.Unmarshal(reasons, &entry.KeyReasons); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal key reasons")
		}
		entries = append(entries, entry)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: iterate recommendations")
}
