package metrics

import (
	"context"
	"sync"
)

var (
	_ Metrics      = (*Mock)(nil)
	_ MetricsStore = (*MockStore)(nil)
)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                     sync.Mutex
	matchesStarted         int
	matchesCompleted       int
	completionStepFailures []string
	completionDurations    []float64
	ratingUpdates          int
	ratingUpdateFailed     int
	ratingUpdateDurations  []float64
	achievements           int
	matchesImported        int
	slackNotifSent         int
	slackNotifFailed       int
	startupTime            float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncMatchesStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesStarted++
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCompleted++
}

func (m *Mock) IncCompletionStepFailed(step string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completionStepFailures = append(m.completionStepFailures, step)
}

func (m *Mock) ObserveCompletionDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completionDurations = append(m.completionDurations, seconds)
}

func (m *Mock) IncRatingUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingUpdates++
}

func (m *Mock) IncRatingUpdateFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingUpdateFailed++
}

func (m *Mock) ObserveRatingUpdateDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratingUpdateDurations = append(m.ratingUpdateDurations, seconds)
}

func (m *Mock) AddAchievements(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.achievements += n
}

func (m *Mock) IncMatchesImported() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesImported++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

func (m *Mock) MatchesStarted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesStarted
}

func (m *Mock) MatchesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCompleted
}

// CompletionStepFailures returns the failed step names in call order.
func (m *Mock) CompletionStepFailures() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.completionStepFailures...)
}

func (m *Mock) RatingUpdates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ratingUpdates
}

func (m *Mock) RatingUpdateFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ratingUpdateFailed
}

func (m *Mock) Achievements() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.achievements
}

func (m *Mock) MatchesImported() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesImported
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// MockStore is an in-memory MetricsStore.
type MockStore struct {
	mu     sync.Mutex
	values map[string]int
}

func NewMockStore() *MockStore {
	return &MockStore{values: make(map[string]int)}
}

func (m *MockStore) Increment(ctx context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key]++
}

func (m *MockStore) GetAll(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}
