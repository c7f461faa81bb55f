package rating

import "context"

// Store is the persistence port the rating service reads from and writes to.
type Store interface {
	GetSystemSettings(ctx context.Context) (Settings, error)
	GetProfileRatings(ctx context.Context, ids []string) ([]PlayerRating, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
	InsertRankingHistory(ctx context.Context, rows []RankingHistory) error
	InsertAchievements(ctx context.Context, rows []Achievement) error
}
