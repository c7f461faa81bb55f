package playtomic

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of the PlaytomicClient interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	GetMatchesFunc func(ctx context.Context, params *SearchMatchesParams) ([]MatchSummary, error)
	GetMatchFunc   func(ctx context.Context, matchID string) (TennisMatch, error)

	// Call records
	GetMatchesCalls []*SearchMatchesParams
	GetMatchCalls   []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) GetMatches(ctx context.Context, params *SearchMatchesParams) ([]MatchSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchesCalls = append(m.GetMatchesCalls, params)
	if m.GetMatchesFunc != nil {
		return m.GetMatchesFunc(ctx, params)
	}
	return []MatchSummary{}, nil
}

func (m *MockClient) GetMatch(ctx context.Context, matchID string) (TennisMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchCalls = append(m.GetMatchCalls, matchID)
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(ctx, matchID)
	}
	return TennisMatch{}, nil
}
