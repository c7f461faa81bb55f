package club

import (
	"context"

	"github.com/mauv0809/atr-tennis/internal/rating"
)

// ClubStore defines the interface for interacting with the club's data.
// It is the persistence port of the rating service as well.
type ClubStore interface {
	rating.Store

	SaveSystemSettings(ctx context.Context, s rating.Settings) error
	UpsertProfiles(ctx context.Context, profiles []Profile) error
	GetProfiles(ctx context.Context, ids []string) ([]Profile, error)
	GetProfileBySlackUserID(ctx context.Context, slackUserID string) (*Profile, error)

	UpsertEvent(ctx context.Context, e Event) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	CompleteEvent(ctx context.Context, id, winnerID string) error
	InsertSetScores(ctx context.Context, rows []SetScoreRow) error
	InsertMatchStats(ctx context.Context, rows []MatchStat) error

	GetRankings(ctx context.Context) ([]Ranking, error)
	GetRankingHistory(ctx context.Context, playerID string) ([]rating.RankingHistory, error)
	GetAchievements(ctx context.Context, playerID string) ([]rating.Achievement, error)

	IsImported(ctx context.Context, playtomicMatchID string) (bool, error)
	MarkImported(ctx context.Context, playtomicMatchID, matchID string) error
}
