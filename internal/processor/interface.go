package processor

import (
	"context"

	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/notifier"
	"github.com/mauv0809/atr-tennis/internal/rating"
	"github.com/mauv0809/atr-tennis/internal/scoring"
)

// Store defines the database operations required by the processor.
type Store interface {
	rating.Store
	UpsertProfiles(ctx context.Context, profiles []club.Profile) error
	GetProfiles(ctx context.Context, ids []string) ([]club.Profile, error)
	UpsertEvent(ctx context.Context, e club.Event) error
	CompleteEvent(ctx context.Context, id, winnerID string) error
	InsertSetScores(ctx context.Context, rows []club.SetScoreRow) error
	InsertMatchStats(ctx context.Context, rows []club.MatchStat) error
	IsImported(ctx context.Context, playtomicMatchID string) (bool, error)
	MarkImported(ctx context.Context, playtomicMatchID, matchID string) error
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}

// Dispatcher hands a completed match to the out-of-process rating update.
type Dispatcher interface {
	PublishMatchCompleted(ctx context.Context, payload scoring.CompletionPayload) error
}
