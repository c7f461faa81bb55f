package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{
		"system_settings", "profiles", "events", "set_scores",
		"match_statistics", "ranking_history", "achievements", "imported_matches", "metrics",
	} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_SeedsDefaultSettings(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	var initial, provisionalK int
	err = db.QueryRow("SELECT initial_rating, provisional_k_factor FROM system_settings WHERE id = 1").Scan(&initial, &provisionalK)
	require.NoError(t, err)
	assert.Equal(t, 1000, initial)
	assert.Equal(t, 40, provisionalK)
}

func TestInitDB_EnforcesForeignKeys(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO ranking_history (id, profile_id, ranking_type, points, points_change, calculation_date)
		VALUES ('h1', 'nobody', 'singles', 1000, 0, 0)`)
	assert.Error(t, err, "history rows must reference an existing profile")
}

func TestInitDB_BadMigrationsDir(t *testing.T) {
	_, _, err := InitDB(":memory:", "", "", "./does-not-exist")
	assert.Error(t, err)
}
