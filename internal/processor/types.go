package processor

import (
	"context"
	"sync"

	"github.com/mauv0809/atr-tennis/internal/metrics"
	"github.com/mauv0809/atr-tennis/internal/playtomic"
	"github.com/mauv0809/atr-tennis/internal/rating"
	"github.com/mauv0809/atr-tennis/internal/scoring"
)

// Processor runs live sessions and the completion and rating pipelines.
type Processor struct {
	store      Store
	ratings    *rating.Service
	dispatcher Dispatcher
	notifier   Notifier
	metrics    metrics.Metrics
	counters   metrics.MetricsStore
	sessions   *scoring.Registry

	playtomic playtomic.PlaytomicClient
	tenantID  string

	mu     sync.Mutex
	clocks map[string]context.CancelFunc
	// committed holds the completion steps that succeeded per event.
	committed map[string]map[string]bool
}

// Option configures optional collaborators.
type Option func(*Processor)

// WithPlaytomic enables ImportResults for the given club tenant.
func WithPlaytomic(client playtomic.PlaytomicClient, tenantID string) Option {
	return func(p *Processor) {
		p.playtomic = client
		p.tenantID = tenantID
	}
}

// WithCounters persists lifetime counters alongside the Prometheus metrics.
func WithCounters(counters metrics.MetricsStore) Option {
	return func(p *Processor) { p.counters = counters }
}

// StartMatchRequest opens a live scoring session for an event.
type StartMatchRequest struct {
	EventID string         `json:"eventId"`
	MatchID string         `json:"matchId"`
	PlayerA scoring.Player `json:"playerA"`
	PlayerB scoring.Player `json:"playerB"`
	Server  *scoring.Side  `json:"server,omitempty"`
}

// Completion step names, in execution order.
const (
	StepUpdateEventStatus = "update-event-status"
	StepInsertSetScores   = "insert-set-scores"
	StepInsertMatchStats  = "insert-match-stats"
	StepPublishCompleted  = "publish-match-completed"
)

// ImportSummary reports what one Playtomic import run did.
type ImportSummary struct {
	Fetched  int `json:"fetched"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}
