package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayPoints(t *testing.T) {
	cases := []struct {
		a, b         int
		wantA, wantB string
	}{
		{0, 0, "0", "0"},
		{1, 0, "15", "0"},
		{2, 3, "30", "40"},
		{3, 3, "Deuce", "Deuce"},
		{4, 3, "Ad", "40"},
		{5, 6, "40", "Ad"},
		{7, 7, "Deuce", "Deuce"},
	}
	for _, tc := range cases {
		gotA, gotB := DisplayPoints(tc.a, tc.b)
		assert.Equal(t, tc.wantA, gotA, "a=%d b=%d", tc.a, tc.b)
		assert.Equal(t, tc.wantB, gotB, "a=%d b=%d", tc.a, tc.b)
	}
}

func TestWinProbability(t *testing.T) {
	a, b := WinProbability(0, 0)
	assert.Equal(t, 50, a)
	assert.Equal(t, 50, b)

	a, b = WinProbability(2, 1)
	assert.Equal(t, 67, a)
	assert.Equal(t, 33, b)

	a, b = WinProbability(0, 3)
	assert.Equal(t, 0, a)
	assert.Equal(t, 100, b)
}

func TestReorient(t *testing.T) {
	history := []SetScore{{GamesA: 6, GamesB: 3}, {GamesA: 4, GamesB: 6}, {GamesA: 7, GamesB: 6}}

	t.Run("winner on side A keeps columns", func(t *testing.T) {
		assert.Equal(t, []OrientedSet{{TeamA: 6, TeamB: 3}, {TeamA: 4, TeamB: 6}, {TeamA: 7, TeamB: 6}}, Reorient(history, SideA))
	})

	t.Run("winner on side B swaps columns", func(t *testing.T) {
		assert.Equal(t, []OrientedSet{{TeamA: 3, TeamB: 6}, {TeamA: 6, TeamB: 4}, {TeamA: 6, TeamB: 7}}, Reorient(history, SideB))
	})

	t.Run("empty history", func(t *testing.T) {
		assert.Empty(t, Reorient(nil, SideA))
	})

	t.Run("does not alias input", func(t *testing.T) {
		out := Reorient(history, SideA)
		out[0].TeamA = 0
		assert.Equal(t, 6, history[0].GamesA)
	})
}

func TestParseSideAndKind(t *testing.T) {
	side, err := ParseSide("b")
	require.NoError(t, err)
	assert.Equal(t, SideB, side)

	_, err = ParseSide("C")
	assert.ErrorIs(t, err, ErrUnknownSide)

	kind, err := ParsePointKind("")
	require.NoError(t, err)
	assert.Equal(t, PointRegular, kind)

	kind, err = ParsePointKind("winner")
	require.NoError(t, err)
	assert.Equal(t, PointWinner, kind)

	_, err = ParsePointKind("double-fault")
	assert.ErrorIs(t, err, ErrUnknownPointKind)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	e := New("m1", "ev1", Player{ID: "a"}, Player{ID: "b"})
	require.NoError(t, r.Start(e))
	assert.ErrorIs(t, r.Start(e), ErrSessionExists)

	got, err := r.Get("ev1")
	require.NoError(t, err)
	assert.Same(t, e, got)
	assert.Equal(t, []string{"ev1"}, r.EventIDs())

	r.Remove("ev1")
	_, err = r.Get("ev1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
