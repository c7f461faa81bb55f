package metrics

import "context"

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesStarted()
	IncMatchesCompleted()
	IncCompletionStepFailed(step string)
	ObserveCompletionDuration(seconds float64)
	IncRatingUpdates()
	IncRatingUpdateFailed()
	ObserveRatingUpdateDuration(seconds float64)
	AddAchievements(n int)
	IncMatchesImported()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore persists lifetime counters that survive restarts.
type MetricsStore interface {
	Increment(ctx context.Context, key string)
	GetAll(ctx context.Context) (map[string]int, error)
}

// Lifetime counter keys.
const (
	KeyMatchesCompleted = "matches_completed"
	KeyRatingsUpdated   = "ratings_updated"
	KeyMatchesImported  = "matches_imported"
)
