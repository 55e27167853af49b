package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/diversiplant/recommender/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS recommendations (
	id                  TEXT PRIMARY KEY,
	farm_id             INTEGER NOT NULL,
	species_id          INTEGER NOT NULL,
	species_name        TEXT,
	species_common_name TEXT,
	score_mcda          REAL NOT NULL,
	rank_overall        INTEGER NOT NULL,
	key_reasons         TEXT NOT NULL,
	excluded            INTEGER NOT NULL DEFAULT 0,
	generated_at        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recommendations_farm_id ON recommendations(farm_id);
CREATE INDEX IF NOT EXISTS idx_recommendations_species_id ON recommendations(species_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ReplaceRecommendations(ctx context.Context, result model.BatchResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recommendations WHERE farm_id = ?`, result.FarmID); err != nil {
		return eris.Wrap(err, "sqlite: delete prior recommendations")
	}

	insert := func(entry model.RecommendationEntry, excluded bool) error {
		reasons, err := json.Marshal(entry.KeyReasons)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal key reasons")
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO recommendations
				(id, farm_id, species_id, species_name, species_common_name,
				 score_mcda, rank_overall, key_reasons, excluded, generated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), result.FarmID, entry.SpeciesID, entry.SpeciesName,
			entry.SpeciesCommonName, entry.ScoreMCDA, entry.RankOverall,
			string(reasons), boolToInt(excluded), result.TimestampUTC,
		)
		return eris.Wrap(err, "sqlite: insert recommendation")
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

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) ListRecommendations(ctx context.Context, farmID int) ([]model.RecommendationEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT species_id, species_name, species_common_name, score_mcda, rank_overall, key_reasons
		FROM recommendations
		WHERE farm_id = ?
		ORDER BY excluded, rank_overall, species_id`, farmID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list recommendations")
	}
	defer rows.Close()

	var entries []model.RecommendationEntry
	for rows.Next() {
		var entry model.RecommendationEntry
		var reasons string
		if err := rows.Scan(&entry.SpeciesID, &entry.SpeciesName, &entry.SpeciesCommonName,
			&entry.ScoreMCDA, &entry.RankOverall, &reasons); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan recommendation")
		}
		if err := json.Unmarshal([]byte(reasons), &entry.KeyReasons); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal key reasons")
		}
		entries = append(entries, entry)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: iterate recommendations")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
