package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atr_matches_started_total",
			Help: "The total number of live scoring sessions started.",
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atr_matches_completed_total",
			Help: "The total number of live matches ended.",
		}),
		CompletionStepFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atr_completion_step_failures_total",
			Help: "Failures of individual match completion steps.",
		}, []string{"step"}),
		CompletionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "atr_match_completion_duration_seconds",
			Help:    "The duration of the match completion pipeline.",
			Buckets: durationBuckets,
		}),
		RatingUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atr_rating_updates_total",
			Help: "The total number of successful rating updates.",
		}),
		RatingUpdateFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atr_rating_update_failures_total",
			Help: "The total number of failed rating updates.",
		}),
		RatingUpdateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "atr_rating_update_duration_seconds",
			Help:    "The duration of individual rating updates.",
			Buckets: durationBuckets,
		}),
		AchievementsUnlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atr_achievements_unlocked_total",
			Help: "The total number of achievements unlocked.",
		}),
		MatchesImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atr_matches_imported_total",
			Help: "The total number of Playtomic matches imported and rated.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atr_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atr_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "atr_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesStarted,
		s.MatchesCompleted,
		s.CompletionStepFailures,
		s.CompletionDuration,
		s.RatingUpdates,
		s.RatingUpdateFailures,
		s.RatingUpdateDuration,
		s.AchievementsUnlocked,
		s.MatchesImported,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesStarted()   { s.MatchesStarted.Inc() }
func (s *Service) IncMatchesCompleted() { s.MatchesCompleted.Inc() }

func (s *Service) IncCompletionStepFailed(step string) {
	s.CompletionStepFailures.WithLabelValues(step).Inc()
}

func (s *Service) ObserveCompletionDuration(seconds float64) {
	s.CompletionDuration.Observe(seconds)
}

func (s *Service) IncRatingUpdates()      { s.RatingUpdates.Inc() }
func (s *Service) IncRatingUpdateFailed() { s.RatingUpdateFailures.Inc() }

func (s *Service) ObserveRatingUpdateDuration(seconds float64) {
	s.RatingUpdateDuration.Observe(seconds)
}

func (s *Service) AddAchievements(n int) {
	s.AchievementsUnlocked.Add(float64(n))
}

func (s *Service) IncMatchesImported() { s.MatchesImported.Inc() }
func (s *Service) IncSlackNotifSent()  { s.SlackNotifSent.Inc() }
func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
