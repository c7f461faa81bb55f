package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestService_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncMatchesStarted()
	s.IncMatchesCompleted()
	s.IncRatingUpdates()
	s.IncRatingUpdates()
	s.AddAchievements(3)
	s.IncCompletionStepFailed("insert-set-scores")
	s.ObserveRatingUpdateDuration(0.02)

	body := scrape(t, reg)
	assert.Contains(t, body, "atr_matches_started_total 1")
	assert.Contains(t, body, "atr_matches_completed_total 1")
	assert.Contains(t, body, "atr_rating_updates_total 2")
	assert.Contains(t, body, "atr_achievements_unlocked_total 3")
	assert.Contains(t, body, `atr_completion_step_failures_total{step="insert-set-scores"} 1`)
	assert.Contains(t, body, "atr_rating_update_duration_seconds_count 1")
}

func TestMock_Records(t *testing.T) {
	m := NewMock()
	m.IncRatingUpdates()
	m.IncCompletionStepFailed("publish-match-completed")
	m.AddAchievements(2)

	assert.Equal(t, 1, m.RatingUpdates())
	assert.Equal(t, 2, m.Achievements())
	assert.Equal(t, []string{"publish-match-completed"}, m.CompletionStepFailures())
}
