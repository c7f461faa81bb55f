package notifier

import (
	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/rating"
	"github.com/mauv0809/atr-tennis/internal/scoring"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For rated matches
	SendMatchResult(result MatchResult, dryRun bool) error
	// For slash commands
	SendRankings(rankings []club.Ranking, dryRun bool) error

	// For formatting responses for slash commands
	FormatRankingsResponse(rankings []club.Ranking) (any, error)
	FormatPlayerRatingResponse(profile club.Profile, history []rating.RankingHistory) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}

// MatchResult is everything a result notification shows.
type MatchResult struct {
	WinnerName string
	LoserName  string
	Sets       []scoring.OrientedSet
	Outcome    rating.Outcome
}
