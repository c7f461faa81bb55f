package playtomic

import "context"

// PlaytomicClient defines the interface for interacting with the Playtomic API.
// This allows for mock implementations to be used in tests.
type PlaytomicClient interface {
	GetMatches(ctx context.Context, params *SearchMatchesParams) ([]MatchSummary, error)
	GetMatch(ctx context.Context, matchID string) (TennisMatch, error)
}
