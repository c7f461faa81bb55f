package inngest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"github.com/mauv0809/atr-tennis/internal/rating"
	"github.com/mauv0809/atr-tennis/internal/scoring"
)

// EventMatchCompleted triggers the rating-update function.
const EventMatchCompleted = "atr/match.completed"

type client struct {
	inngestClient inngestgo.Client
}

// New wraps an inngestgo client.
func New(inngestClient inngestgo.Client) InngestClient {
	return &client{
		inngestClient: inngestClient,
	}
}

// RegisterRatingUpdate creates the rating-update function. Validation and
// degenerate-score failures are not retried.
func (i *client) RegisterRatingUpdate(updater RatingUpdater) error {
	_, err := inngestgo.CreateFunction(
		i.inngestClient,
		inngestgo.FunctionOpts{
			ID:   "rating-update",
			Name: "Update player ratings",
		},
		inngestgo.EventTrigger(EventMatchCompleted, nil),
		func(ctx context.Context, input inngestgo.Input[scoring.CompletionPayload]) (any, error) {
			payload := input.Event.Data
			return step.Run(ctx, "update-ratings", func(ctx context.Context) (rating.Outcome, error) {
				return updateRatings(ctx, updater, payload)
			})
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create rating-update function: %w", err)
	}
	return nil
}

// updateRatings runs one rating update and marks permanent failures so
// Inngest does not retry them.
func updateRatings(ctx context.Context, updater RatingUpdater, payload scoring.CompletionPayload) (rating.Outcome, error) {
	outcome, err := updater.UpdateRatings(ctx, payload, false)
	if err != nil && rating.Permanent(err) {
		log.Warn("Rating update will not be retried", "matchID", payload.MatchID, "error", err)
		return outcome, inngestgo.NoRetryError(err)
	}
	return outcome, err
}

func (i *client) Serve() http.Handler {
	return i.inngestClient.Serve()
}

func (i *client) SendEvent(ctx context.Context, name string, data map[string]any) error {
	id, err := i.inngestClient.Send(ctx, inngestgo.Event{Name: name, Data: data})
	if err != nil {
		log.Error("Failed to send Inngest event", "error", err, "event", name)
		return err
	}
	log.Info("Sent Inngest event", "event", name, "id", id)
	return nil
}

// PayloadData converts a completion payload into Inngest event data.
func PayloadData(payload scoring.CompletionPayload) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
