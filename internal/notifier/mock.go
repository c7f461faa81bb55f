package notifier

import (
	"sync"

	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/rating"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendMatchResultFunc func(result MatchResult, dryRun bool) error

	// Call records
	SendMatchResultCalls []MatchResult
	SendRankingsCalls    [][]club.Ranking
	LastFormatted        any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendMatchResult(result MatchResult, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, result)
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(result, dryRun)
	}
	return nil
}

func (m *Mock) SendRankings(rankings []club.Ranking, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRankingsCalls = append(m.SendRankingsCalls, rankings)
	return nil
}

func (m *Mock) FormatRankingsResponse(rankings []club.Ranking) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFormatted = "formatted_rankings"
	return m.LastFormatted, nil
}

func (m *Mock) FormatPlayerRatingResponse(profile club.Profile, history []rating.RankingHistory) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFormatted = "formatted_player_rating:" + profile.ID
	return m.LastFormatted, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFormatted = "formatted_player_not_found"
	return m.LastFormatted, nil
}
