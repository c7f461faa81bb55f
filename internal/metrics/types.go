package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchesStarted         prometheus.Counter
	MatchesCompleted       prometheus.Counter
	CompletionStepFailures *prometheus.CounterVec
	CompletionDuration     prometheus.Histogram
	RatingUpdates          prometheus.Counter
	RatingUpdateFailures   prometheus.Counter
	RatingUpdateDuration   prometheus.Histogram
	AchievementsUnlocked   prometheus.Counter
	MatchesImported        prometheus.Counter
	SlackNotifSent         prometheus.Counter
	SlackNotifFailed       prometheus.Counter
	StartupTimeSeconds     prometheus.Gauge
}
