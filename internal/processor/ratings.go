package processor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/atr-tennis/internal/metrics"
	"github.com/mauv0809/atr-tennis/internal/notifier"
	"github.com/mauv0809/atr-tennis/internal/rating"
	"github.com/mauv0809/atr-tennis/internal/scoring"
)

// UpdateRatings is the consumer side of a completed match. It applies the
// rating update and then announces the result. The announcement is best
// effort and never fails the update.
func (p *Processor) UpdateRatings(ctx context.Context, payload scoring.CompletionPayload, dryRun bool) (rating.Outcome, error) {
	if dryRun {
		log.Info("[Dry Run] Would update ratings", "matchID", payload.MatchID, "winner", payload.WinnerID, "loser", payload.LoserID)
		return rating.Outcome{MatchID: payload.MatchID, WinnerID: payload.WinnerID, LoserID: payload.LoserID}, nil
	}

	start := time.Now()
	outcome, err := p.ratings.UpdateRatings(ctx, payload)
	p.metrics.ObserveRatingUpdateDuration(time.Since(start).Seconds())
	if err != nil {
		p.metrics.IncRatingUpdateFailed()
		return outcome, err
	}

	p.metrics.IncRatingUpdates()
	p.metrics.AddAchievements(len(outcome.Achievements))
	p.count(ctx, metrics.KeyRatingsUpdated)
	p.announce(ctx, payload, outcome)
	return outcome, nil
}

func (p *Processor) announce(ctx context.Context, payload scoring.CompletionPayload, outcome rating.Outcome) {
	names := map[string]string{payload.WinnerID: payload.WinnerID, payload.LoserID: payload.LoserID}
	profiles, err := p.store.GetProfiles(ctx, []string{payload.WinnerID, payload.LoserID})
	if err != nil {
		log.Warn("Failed to load player names for notification", "matchID", payload.MatchID, "error", err)
	}
	for _, pr := range profiles {
		names[pr.ID] = pr.FullName
	}

	err = p.notifier.SendMatchResult(notifier.MatchResult{
		WinnerName: names[payload.WinnerID],
		LoserName:  names[payload.LoserID],
		Sets:       payload.ScoreSummary.Sets,
		Outcome:    outcome,
	}, false)
	if err != nil {
		log.Error("Failed to send result notification", "matchID", payload.MatchID, "error", err)
	}
}
