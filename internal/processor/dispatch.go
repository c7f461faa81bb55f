package processor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/atr-tennis/internal/inngest"
	"github.com/mauv0809/atr-tennis/internal/pubsub"
	"github.com/mauv0809/atr-tennis/internal/scoring"
)

// PubSubDispatcher publishes completed matches to the match-completed topic.
type PubSubDispatcher struct {
	client pubsub.PubSubClient
}

func NewPubSubDispatcher(client pubsub.PubSubClient) *PubSubDispatcher {
	return &PubSubDispatcher{client: client}
}

func (d *PubSubDispatcher) PublishMatchCompleted(ctx context.Context, payload scoring.CompletionPayload) error {
	return d.client.SendMessage(ctx, pubsub.EventMatchCompleted, payload)
}

// InngestDispatcher sends completed matches as Inngest events.
type InngestDispatcher struct {
	client inngest.InngestClient
}

func NewInngestDispatcher(client inngest.InngestClient) *InngestDispatcher {
	return &InngestDispatcher{client: client}
}

func (d *InngestDispatcher) PublishMatchCompleted(ctx context.Context, payload scoring.CompletionPayload) error {
	data, err := inngest.PayloadData(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}
	return d.client.SendEvent(ctx, inngest.EventMatchCompleted, data)
}

// InlineDispatcher rates the match in-process. It is used for local runs
// without a message bus. Rating failures are logged and counted by
// UpdateRatings and never fail the completion.
type InlineDispatcher struct {
	p *Processor
}

// Inline returns a dispatcher that calls p.UpdateRatings directly.
func Inline(p *Processor) *InlineDispatcher {
	return &InlineDispatcher{p: p}
}

func (d *InlineDispatcher) PublishMatchCompleted(ctx context.Context, payload scoring.CompletionPayload) error {
	log.Debug("Rating match inline", "matchID", payload.MatchID)
	if _, err := d.p.UpdateRatings(ctx, payload, false); err != nil {
		log.Error("Inline rating update failed", "matchID", payload.MatchID, "error", err)
	}
	return nil
}

// SetDispatcher replaces the dispatcher. It exists so the inline dispatcher,
// which needs the processor itself, can be wired after New.
func (p *Processor) SetDispatcher(d Dispatcher) {
	p.dispatcher = d
}
