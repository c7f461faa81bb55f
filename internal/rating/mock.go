package rating

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetSystemSettingsFunc    func(ctx context.Context) (Settings, error)
	GetProfileRatingsFunc    func(ctx context.Context, ids []string) ([]PlayerRating, error)
	UpdateProfileFunc        func(ctx context.Context, id string, update ProfileUpdate) error
	InsertRankingHistoryFunc func(ctx context.Context, rows []RankingHistory) error
	InsertAchievementsFunc   func(ctx context.Context, rows []Achievement) error

	// Call records
	GetProfileRatingsCalls [][]string
	UpdateProfileCalls     []struct {
		ID     string
		Update ProfileUpdate
	}
	InsertRankingHistoryCalls [][]RankingHistory
	InsertAchievementsCalls   [][]Achievement
}

// NewMockStore creates a new mock instance.
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) GetSystemSettings(ctx context.Context) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetSystemSettingsFunc != nil {
		return m.GetSystemSettingsFunc(ctx)
	}
	return DefaultSettings, nil
}

func (m *MockStore) GetProfileRatings(ctx context.Context, ids []string) ([]PlayerRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetProfileRatingsCalls = append(m.GetProfileRatingsCalls, ids)
	if m.GetProfileRatingsFunc != nil {
		return m.GetProfileRatingsFunc(ctx, ids)
	}
	rows := make([]PlayerRating, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, PlayerRating{ID: id})
	}
	return rows, nil
}

func (m *MockStore) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateProfileCalls = append(m.UpdateProfileCalls, struct {
		ID     string
		Update ProfileUpdate
	}{id, update})
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, update)
	}
	return nil
}

func (m *MockStore) InsertRankingHistory(ctx context.Context, rows []RankingHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertRankingHistoryCalls = append(m.InsertRankingHistoryCalls, rows)
	if m.InsertRankingHistoryFunc != nil {
		return m.InsertRankingHistoryFunc(ctx, rows)
	}
	return nil
}

func (m *MockStore) InsertAchievements(ctx context.Context, rows []Achievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertAchievementsCalls = append(m.InsertAchievementsCalls, rows)
	if m.InsertAchievementsFunc != nil {
		return m.InsertAchievementsFunc(ctx, rows)
	}
	return nil
}
