package inngest

import (
	"context"
	"net/http"

	"github.com/mauv0809/atr-tennis/internal/rating"
	"github.com/mauv0809/atr-tennis/internal/scoring"
)

type InngestClient interface {
	Serve() http.Handler
	SendEvent(ctx context.Context, name string, data map[string]any) error
	RegisterRatingUpdate(updater RatingUpdater) error
}

// RatingUpdater applies a rating update for a completed match.
type RatingUpdater interface {
	UpdateRatings(ctx context.Context, payload scoring.CompletionPayload, dryRun bool) (rating.Outcome, error)
}
