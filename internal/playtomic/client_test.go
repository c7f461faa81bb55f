package playtomic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mauv0809/atr-tennis/internal/scoring"
	"github.com/rafa-garcia/go-playtomic-api/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singlesJSON = `{
	"start_date": "2026-07-09T18:00:00",
	"end_date": "2026-07-09T19:30:00",
	"game_status": "PLAYED",
	"results_status": "CONFIRMED",
	"resource_name": "Court 3",
	"tenant": { "tenant_id": "tenant-abc", "tenant_name": "Tennis Club" },
	"teams": [
		{ "team_id": "0", "team_result": "LOST", "players": [{ "user_id": "u-1", "name": "Player A" }] },
		{ "team_id": "1", "team_result": "WON", "players": [{ "user_id": "u-2", "name": "Player B" }] }
	],
	"results": [
		{ "name": "Set 1", "scores": [{ "team_id": "0", "score": 6 }, { "team_id": "1", "score": 4 }] },
		{ "name": "Set 2", "scores": [{ "team_id": "0", "score": 3 }, { "team_id": "1", "score": 6 }] },
		{ "name": "Set 3", "scores": [{ "team_id": "0", "score": 5 }, { "team_id": "1", "score": 7 }] }
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &APIClient{
		httpClient: server.Client(),
		apiClient:  client.NewClient(), // unused by GetMatch
		BaseURL:    server.URL,
	}
}

func TestGetMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/matches/match-abc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, singlesJSON)
	})

	match, err := c.GetMatch(context.Background(), "match-abc")
	require.NoError(t, err)
	assert.Equal(t, "match-abc", match.MatchID)
	assert.Equal(t, GameStatusPlayed, match.GameStatus)
	assert.Equal(t, ResultsStatusConfirmed, match.ResultsStatus)
	assert.Equal(t, "Court 3", match.ResourceName)
	assert.NotZero(t, match.Start)
	require.Len(t, match.Teams, 2)
	assert.Equal(t, TeamResultWon, match.Teams[1].TeamResult)
	require.Len(t, match.Results, 3)
	assert.Equal(t, 7, match.Results[2].Scores["1"])
}

func TestGetMatch_NonOK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	_, err := c.GetMatch(context.Background(), "missing")
	assert.ErrorContains(t, err, "404")
}

func TestCompletionPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, singlesJSON)
	})
	match, err := c.GetMatch(context.Background(), "m-7")
	require.NoError(t, err)

	payload, err := match.CompletionPayload()
	require.NoError(t, err)
	assert.Equal(t, "m-7", payload.MatchID)
	assert.Equal(t, "playtomic-m-7", payload.EventID)
	assert.Equal(t, "u-2", payload.WinnerID)
	assert.Equal(t, "u-1", payload.LoserID)
	assert.Equal(t, []scoring.OrientedSet{
		{TeamA: 4, TeamB: 6},
		{TeamA: 6, TeamB: 3},
		{TeamA: 7, TeamB: 5},
	}, payload.ScoreSummary.Sets)
}

func TestCompletionPayload_NotRatable(t *testing.T) {
	singles := func() TennisMatch {
		return TennisMatch{
			MatchID:       "m",
			GameStatus:    GameStatusPlayed,
			ResultsStatus: ResultsStatusConfirmed,
			Teams: []Team{
				{ID: "0", TeamResult: TeamResultWon, Players: []Player{{UserID: "a"}}},
				{ID: "1", Players: []Player{{UserID: "b"}}},
			},
			Results: []SetResult{{Scores: map[string]int{"0": 6, "1": 1}}},
		}
	}

	cases := map[string]func(m *TennisMatch){
		"not played":      func(m *TennisMatch) { m.GameStatus = GameStatusPending },
		"unconfirmed":     func(m *TennisMatch) { m.ResultsStatus = ResultsStatusPending },
		"doubles":         func(m *TennisMatch) { m.Teams[0].Players = append(m.Teams[0].Players, Player{UserID: "c"}) },
		"no results":      func(m *TennisMatch) { m.Results = nil },
		"no winning team": func(m *TennisMatch) { m.Teams[0].TeamResult = "" },
		"only empty sets": func(m *TennisMatch) {
			m.Results = []SetResult{{Scores: map[string]int{"0": 0, "1": 0}}, {Scores: map[string]int{}}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := singles()
			mutate(&m)
			_, err := m.CompletionPayload()
			assert.ErrorIs(t, err, ErrNotRatable)
		})
	}

	_, err := singles().CompletionPayload()
	assert.NoError(t, err)
}
