package metrics

import (
	"context"
	"testing"

	"github.com/mauv0809/atr-tennis/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementAndGetAll(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	store := New(db)
	ctx := context.Background()

	metrics, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, metrics)

	store.Increment(ctx, KeyMatchesCompleted)
	store.Increment(ctx, KeyMatchesCompleted)
	store.Increment(ctx, KeyRatingsUpdated)

	metrics, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		KeyMatchesCompleted: 2,
		KeyRatingsUpdated:   1,
	}, metrics)
}
