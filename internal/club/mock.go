package club

import (
	"context"
	"sync"

	"github.com/mauv0809/atr-tennis/internal/rating"
)

var _ ClubStore = (*MockStore)(nil)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It embeds rating.MockStore for the rating port. It is safe for concurrent use.
type MockStore struct {
	*rating.MockStore
	mu sync.Mutex

	// Spies for method calls
	SaveSystemSettingsFunc      func(ctx context.Context, s rating.Settings) error
	UpsertProfilesFunc          func(ctx context.Context, profiles []Profile) error
	GetProfilesFunc             func(ctx context.Context, ids []string) ([]Profile, error)
	GetProfileBySlackUserIDFunc func(ctx context.Context, slackUserID string) (*Profile, error)
	UpsertEventFunc             func(ctx context.Context, e Event) error
	GetEventFunc                func(ctx context.Context, id string) (*Event, error)
	CompleteEventFunc           func(ctx context.Context, id, winnerID string) error
	InsertSetScoresFunc         func(ctx context.Context, rows []SetScoreRow) error
	InsertMatchStatsFunc        func(ctx context.Context, rows []MatchStat) error
	GetRankingsFunc             func(ctx context.Context) ([]Ranking, error)
	GetRankingHistoryFunc       func(ctx context.Context, playerID string) ([]rating.RankingHistory, error)
	GetAchievementsFunc         func(ctx context.Context, playerID string) ([]rating.Achievement, error)
	IsImportedFunc              func(ctx context.Context, playtomicMatchID string) (bool, error)
	MarkImportedFunc            func(ctx context.Context, playtomicMatchID, matchID string) error

	// Call records
	UpsertProfilesCalls [][]Profile
	UpsertEventCalls    []Event
	CompleteEventCalls  []struct {
		ID       string
		WinnerID string
	}
	InsertSetScoresCalls  [][]SetScoreRow
	InsertMatchStatsCalls [][]MatchStat
	MarkImportedCalls     []struct {
		PlaytomicMatchID string
		MatchID          string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{MockStore: rating.NewMockStore()}
}

func (m *MockStore) SaveSystemSettings(ctx context.Context, s rating.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveSystemSettingsFunc != nil {
		return m.SaveSystemSettingsFunc(ctx, s)
	}
	return nil
}

func (m *MockStore) UpsertProfiles(ctx context.Context, profiles []Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertProfilesCalls = append(m.UpsertProfilesCalls, profiles)
	if m.UpsertProfilesFunc != nil {
		return m.UpsertProfilesFunc(ctx, profiles)
	}
	return nil
}

func (m *MockStore) GetProfiles(ctx context.Context, ids []string) ([]Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetProfilesFunc != nil {
		return m.GetProfilesFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockStore) GetProfileBySlackUserID(ctx context.Context, slackUserID string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetProfileBySlackUserIDFunc != nil {
		return m.GetProfileBySlackUserIDFunc(ctx, slackUserID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) UpsertEvent(ctx context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertEventCalls = append(m.UpsertEventCalls, e)
	if m.UpsertEventFunc != nil {
		return m.UpsertEventFunc(ctx, e)
	}
	return nil
}

func (m *MockStore) GetEvent(ctx context.Context, id string) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetEventFunc != nil {
		return m.GetEventFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) CompleteEvent(ctx context.Context, id, winnerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteEventCalls = append(m.CompleteEventCalls, struct {
		ID       string
		WinnerID string
	}{id, winnerID})
	if m.CompleteEventFunc != nil {
		return m.CompleteEventFunc(ctx, id, winnerID)
	}
	return nil
}

func (m *MockStore) InsertSetScores(ctx context.Context, rows []SetScoreRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertSetScoresCalls = append(m.InsertSetScoresCalls, rows)
	if m.InsertSetScoresFunc != nil {
		return m.InsertSetScoresFunc(ctx, rows)
	}
	return nil
}

func (m *MockStore) InsertMatchStats(ctx context.Context, rows []MatchStat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertMatchStatsCalls = append(m.InsertMatchStatsCalls, rows)
	if m.InsertMatchStatsFunc != nil {
		return m.InsertMatchStatsFunc(ctx, rows)
	}
	return nil
}

func (m *MockStore) GetRankings(ctx context.Context) ([]Ranking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRankingsFunc != nil {
		return m.GetRankingsFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) GetRankingHistory(ctx context.Context, playerID string) ([]rating.RankingHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRankingHistoryFunc != nil {
		return m.GetRankingHistoryFunc(ctx, playerID)
	}
	return nil, nil
}

func (m *MockStore) GetAchievements(ctx context.Context, playerID string) ([]rating.Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAchievementsFunc != nil {
		return m.GetAchievementsFunc(ctx, playerID)
	}
	return nil, nil
}

func (m *MockStore) IsImported(ctx context.Context, playtomicMatchID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsImportedFunc != nil {
		return m.IsImportedFunc(ctx, playtomicMatchID)
	}
	return false, nil
}

func (m *MockStore) MarkImported(ctx context.Context, playtomicMatchID, matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkImportedCalls = append(m.MarkImportedCalls, struct {
		PlaytomicMatchID string
		MatchID          string
	}{playtomicMatchID, matchID})
	if m.MarkImportedFunc != nil {
		return m.MarkImportedFunc(ctx, playtomicMatchID, matchID)
	}
	return nil
}
