package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/config"
	"github.com/mauv0809/atr-tennis/internal/database"
	"github.com/mauv0809/atr-tennis/internal/http/handlers"
	"github.com/mauv0809/atr-tennis/internal/metrics"
	"github.com/mauv0809/atr-tennis/internal/notifier"
	slacknotifier "github.com/mauv0809/atr-tennis/internal/notifier/slack"
	"github.com/mauv0809/atr-tennis/internal/processor"
	"github.com/mauv0809/atr-tennis/internal/pubsub"
	"github.com/mauv0809/atr-tennis/internal/rating"
	"github.com/mauv0809/atr-tennis/internal/scoring"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testSlackSigningSecret = "test-signing-secret"

type testEnv struct {
	server *Server
	store  club.ClubStore
	notif  *notifier.Mock
}

// setupTestServer initializes a server on an in-memory database that rates
// completed matches inline.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	store := club.New(db)
	counters := metrics.New(db)
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	notif := notifier.NewMock()

	proc := processor.New(store, notif, metricsSvc, nil, processor.WithCounters(counters))
	proc.SetDispatcher(processor.Inline(proc))
	t.Cleanup(proc.Shutdown)

	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: testSlackSigningSecret}}
	slackFormatter := slacknotifier.NewNotifier("test-token", "C123", metricsSvc)
	server := NewServer(store, counters, metrics.NewMetricsHandler(reg), cfg, slackFormatter, proc, pubsub.NewMock(), nil)
	return &testEnv{server: server, store: store, notif: notif}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (e *testEnv) startMatch(t *testing.T, eventID string) {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/matches", processor.StartMatchRequest{
		EventID: eventID,
		PlayerA: scoring.Player{ID: "p1", Name: "Anna"},
		PlayerB: scoring.Player{ID: "p2", Name: "Bea"},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

// winStraightSets scores 6-0 6-0 for side through the API.
func (e *testEnv) winStraightSets(t *testing.T, eventID, side string) {
	t.Helper()
	for i := 0; i < 2*6*4; i++ {
		rr := e.do(t, http.MethodPost, "/matches/"+eventID+"/point", handlers.PointRequest{Side: side})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
}

// createSlackCommandRequest builds a signed Slack slash command request.
func createSlackCommandRequest(t *testing.T, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	body := form.Encode()
	req := httptest.NewRequest(http.MethodPost, "/slack/command/ranking", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(fmt.Sprintf("v0:%d:%s", timestamp, body)))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))
	return req
}

func TestHealthCheckHandler(t *testing.T) {
	env := setupTestServer(t)

	rr := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestLiveMatchFlow(t *testing.T) {
	env := setupTestServer(t)
	env.startMatch(t, "ev-1")

	live := decode[[]scoring.Snapshot](t, env.do(t, http.MethodGet, "/matches", nil))
	require.Len(t, live, 1)
	assert.Equal(t, "ev-1", live[0].EventID)

	env.winStraightSets(t, "ev-1", "A")

	rr := env.do(t, http.MethodPost, "/matches/ev-1/end", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	payload := decode[scoring.CompletionPayload](t, rr)
	assert.Equal(t, "p1", payload.WinnerID)
	assert.Equal(t, []scoring.OrientedSet{{TeamA: 6, TeamB: 0}, {TeamA: 6, TeamB: 0}}, payload.ScoreSummary.Sets)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/matches/ev-1", nil).Code, "session released")

	event, err := env.store.GetEvent(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, club.EventCompleted, event.Status)
	assert.Equal(t, "p1", event.WinnerID)

	rankings := decode[[]club.Ranking](t, env.do(t, http.MethodGet, "/rankings", nil))
	require.Len(t, rankings, 2)
	assert.Equal(t, "Anna", rankings[0].PlayerName)
	require.NotNil(t, rankings[0].Rating)
	// K=40 for a provisional winner, actual 1.0, expected 0.5.
	assert.Equal(t, 1020, *rankings[0].Rating)
	assert.Equal(t, 980, *rankings[1].Rating)

	history := decode[handlers.PlayerHistory](t, env.do(t, http.MethodGet, "/players/p1/history", nil))
	require.Len(t, history.History, 1)
	assert.Equal(t, 20, history.History[0].PointsChange)
	require.Len(t, history.Achievements, 1)
	assert.Equal(t, rating.AchievementFirstWin, history.Achievements[0].AchievementType)

	stats := decode[map[string]int](t, env.do(t, http.MethodGet, "/stats", nil))
	assert.Equal(t, 1, stats[metrics.KeyMatchesCompleted])
	assert.Equal(t, 1, stats[metrics.KeyRatingsUpdated])

	require.Len(t, env.notif.SendMatchResultCalls, 1)
	assert.Equal(t, "Anna", env.notif.SendMatchResultCalls[0].WinnerName)

	scrape := env.do(t, http.MethodGet, "/metrics", nil)
	assert.Contains(t, scrape.Body.String(), "atr_matches_completed_total 1")
}

func TestMatchErrors(t *testing.T) {
	env := setupTestServer(t)
	env.startMatch(t, "ev-1")

	cases := []struct {
		name   string
		method string
		target string
		body   any
		want   int
	}{
		{"unknown event", http.MethodGet, "/matches/nope", nil, http.StatusNotFound},
		{"unknown side", http.MethodPost, "/matches/ev-1/point", handlers.PointRequest{Side: "C"}, http.StatusBadRequest},
		{"unknown point kind", http.MethodPost, "/matches/ev-1/point", handlers.PointRequest{Side: "A", Kind: "LET"}, http.StatusBadRequest},
		{"ace by receiver", http.MethodPost, "/matches/ev-1/ace", handlers.AceRequest{Side: "B"}, http.StatusConflict},
		{"end before two sets", http.MethodPost, "/matches/ev-1/end", nil, http.StatusConflict},
		{"duplicate session", http.MethodPost, "/matches", processor.StartMatchRequest{EventID: "ev-1", PlayerA: scoring.Player{ID: "x"}, PlayerB: scoring.Player{ID: "y"}}, http.StatusConflict},
		{"same player twice", http.MethodPost, "/matches", processor.StartMatchRequest{PlayerA: scoring.Player{ID: "x"}, PlayerB: scoring.Player{ID: "x"}}, http.StatusBadRequest},
		{"import not configured", http.MethodPost, "/import", nil, http.StatusNotImplemented},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.want, rr.Code, rr.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, rr)["error"])
		})
	}
}

func TestServeAndAce(t *testing.T) {
	env := setupTestServer(t)
	env.startMatch(t, "ev-1")

	snap := decode[scoring.Snapshot](t, env.do(t, http.MethodPost, "/matches/ev-1/serve", nil))
	assert.Equal(t, scoring.SideB, snap.Serving)

	rr := env.do(t, http.MethodPost, "/matches/ev-1/ace", handlers.AceRequest{Side: "B"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	snap = decode[scoring.Snapshot](t, rr)
	assert.Equal(t, 1, snap.Sides[scoring.SideB].Aces)
	assert.Equal(t, [2]string{"0", "15"}, snap.Display)
}

func TestEndMatchDryRun(t *testing.T) {
	env := setupTestServer(t)
	env.startMatch(t, "ev-1")
	env.winStraightSets(t, "ev-1", "B")

	rr := env.do(t, http.MethodPost, "/matches/ev-1/end?dry_run=true", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "p2", decode[scoring.CompletionPayload](t, rr).WinnerID)

	event, err := env.store.GetEvent(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, club.EventInProgress, event.Status)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/matches/ev-1", nil).Code, "session kept")
	assert.Empty(t, env.notif.SendMatchResultCalls)
}

func TestAbandonMatch(t *testing.T) {
	env := setupTestServer(t)
	env.startMatch(t, "ev-1")

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/matches/ev-1", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/matches/ev-1", nil).Code)
}

func pushBody(t *testing.T, payload scoring.CompletionPayload) pubsub.PushRequest {
	t.Helper()
	data, err := msgpack.Marshal(payload)
	require.NoError(t, err)
	var push pubsub.PushRequest
	push.Message.Data = data
	push.Message.MessageID = "msg-1"
	push.Subscription = "projects/p/subscriptions/rating-update"
	return push
}

func TestRatingUpdateHandler(t *testing.T) {
	env := setupTestServer(t)
	require.NoError(t, env.store.UpsertProfiles(context.Background(), []club.Profile{
		{ID: "p1", FullName: "Anna"}, {ID: "p2", FullName: "Bea"},
	}))

	t.Run("applies the update", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/ratings/update", pushBody(t, scoring.CompletionPayload{
			MatchID:  "m-1",
			WinnerID: "p1",
			LoserID:  "p2",
			ScoreSummary: scoring.ScoreSummary{Sets: []scoring.OrientedSet{
				{TeamA: 6, TeamB: 2}, {TeamA: 6, TeamB: 3},
			}},
		}))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		out := decode[rating.Outcome](t, rr)
		assert.Equal(t, 1008, out.WinnerNewRating)
		assert.Equal(t, 992, out.LoserNewRating)
	})

	t.Run("permanent failure is acknowledged", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/ratings/update", pushBody(t, scoring.CompletionPayload{
			MatchID: "m-2", WinnerID: "p1", LoserID: "p1",
		}))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("missing profile is retried", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/ratings/update", pushBody(t, scoring.CompletionPayload{
			MatchID:      "m-3",
			WinnerID:     "p1",
			LoserID:      "ghost",
			ScoreSummary: scoring.ScoreSummary{Sets: []scoring.OrientedSet{{TeamA: 6, TeamB: 0}}},
		}))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("garbage data", func(t *testing.T) {
		var push pubsub.PushRequest
		push.Message.Data = []byte{0xc1}
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/ratings/update", push).Code)
	})
}

func TestRankingCommandHandler(t *testing.T) {
	env := setupTestServer(t)
	slackID := "U42"
	require.NoError(t, env.store.UpsertProfiles(context.Background(), []club.Profile{
		{ID: "p1", FullName: "Anna", SlackUserID: &slackID},
	}))

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		env.server.ServeHTTP(rr, req)
		return rr
	}

	t.Run("rankings table", func(t *testing.T) {
		rr := serve(createSlackCommandRequest(t, url.Values{"command": {"/ranking"}, "user_id": {"U1"}}, testSlackSigningSecret))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), "ATR Rankings")
		assert.Contains(t, rr.Body.String(), "No rated players yet")
	})

	t.Run("own rating", func(t *testing.T) {
		rr := serve(createSlackCommandRequest(t, url.Values{"user_id": {"U42"}, "text": {"me"}}, testSlackSigningSecret))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), "ATR for Anna")
	})

	t.Run("mentioned player", func(t *testing.T) {
		rr := serve(createSlackCommandRequest(t, url.Values{"user_id": {"U1"}, "text": {"<@U42|anna>"}}, testSlackSigningSecret))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), "ATR for Anna")
	})

	t.Run("unknown player", func(t *testing.T) {
		rr := serve(createSlackCommandRequest(t, url.Values{"user_id": {"U1"}, "text": {"<@U99>"}}, testSlackSigningSecret))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, rr.Body.String(), "couldn't find a player")
	})

	t.Run("bad signature", func(t *testing.T) {
		rr := serve(createSlackCommandRequest(t, url.Values{"user_id": {"U1"}}, "wrong-secret"))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
