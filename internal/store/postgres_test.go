package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diversiplant/recommender/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS recommendations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ReplaceRecommendations(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM recommendations WHERE farm_id = \$1`).
		WithArgs(42).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`INSERT INTO recommendations`).
		WithArgs(pgxmock.AnyArg(), 42, 1, "Acacia koa", "Koa",
			0.82, 1, `["rain:within plateau [900, 2000]"]`, false, "2026-03-14T09:26:53Z").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO recommendations`).
		WithArgs(pgxmock.AnyArg(), 42, 2, "Santalum paniculatum", "Sandalwood",
			-1.0, -1, `["excluded: no suitable host plant"]`, true, "2026-03-14T09:26:53Z").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := s.ReplaceRecommendations(context.Background(), model.BatchResult{
		FarmID:       42,
		TimestampUTC: "2026-03-14T09:26:53Z",
		Recommendations: []model.RecommendationEntry{
			{SpeciesID: 1, SpeciesName: "Acacia koa", SpeciesCommonName: "Koa",
				ScoreMCDA: 0.82, RankOverall: 1, KeyReasons: []string{"rain:within plateau [900, 2000]"}},
		},
		ExcludedSpecies: []model.RecommendationEntry{
			{SpeciesID: 2, SpeciesName: "Santalum paniculatum", SpeciesCommonName: "Sandalwood",
				ScoreMCDA: -1, RankOverall: -1, KeyReasons: []string{"excluded: no suitable host plant"}},
		},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ReplaceRecommendations_RollsBackOnInsertError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM recommendations`).
		WithArgs(7).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO recommendations`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(eris.New("boom"))
	mock.ExpectRollback()

	err := s.ReplaceRecommendations(context.Background(), model.BatchResult{
		FarmID: 7,
		Recommendations: []model.RecommendationEntry{
			{SpeciesID: 1, KeyReasons: []string{}},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert recommendation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRecommendations(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{
		"species_id", "species_name", "species_common_name", "score_mcda", "rank_overall", "key_reasons",
	}).
		AddRow(1, "Acacia koa", "Koa", 0.82, 1, []byte(`["rain:within plateau [900, 2000]"]`)).
		AddRow(2, "Santalum paniculatum", "Sandalwood", -1.0, -1, []byte(`["excluded: no suitable host plant"]`))

	mock.ExpectQuery(`SELECT species_id, species_name, species_common_name, score_mcda, rank_overall, key_reasons`).
		WithArgs(42).
		WillReturnRows(rows)

	entries, err := s.ListRecommendations(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].SpeciesID)
	assert.Equal(t, []string{"rain:within plateau [900, 2000]"}, entries[0].KeyReasons)
	assert.Equal(t, -1, entries[1].RankOverall)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRecommendations_QueryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT species_id`).
		WithArgs(42).
		WillReturnError(eris.New("connection reset"))

	_, err := s.ListRecommendations(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list recommendations")
	assert.NoError(t, mock.ExpectationsWereMet())
}
