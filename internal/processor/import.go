package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/metrics"
	"github.com/mauv0809/atr-tennis/internal/playtomic"
)

// importWindow is how far back each import run looks for played matches.
const importWindow = 7 * 24 * time.Hour

// ImportResults pulls played singles matches from Playtomic and rates every
// confirmed result not imported before. One failing match does not stop the
// run.
func (p *Processor) ImportResults(ctx context.Context, dryRun bool) (ImportSummary, error) {
	var summary ImportSummary
	if p.playtomic == nil {
		return summary, ErrImportNotConfigured
	}

	params := &playtomic.SearchMatchesParams{
		SportID:       playtomic.SportTennis,
		HasPlayers:    true,
		Sort:          "start_date,DESC",
		TenantIDs:     []string{p.tenantID},
		FromStartDate: time.Now().Add(-importWindow).Format("2006-01-02") + "T00:00:00",
	}
	matches, err := p.playtomic.GetMatches(ctx, params)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch matches: %w", err)
	}
	summary.Fetched = len(matches)

	for _, m := range matches {
		imported, err := p.importMatch(ctx, m.MatchID, dryRun)
		switch {
		case err != nil:
			summary.Failed++
			log.Error("Failed to import match", "matchID", m.MatchID, "error", err)
		case imported:
			summary.Imported++
		default:
			summary.Skipped++
		}
	}
	log.Info("Playtomic import finished", "fetched", summary.Fetched, "imported", summary.Imported, "skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

func (p *Processor) importMatch(ctx context.Context, matchID string, dryRun bool) (bool, error) {
	done, err := p.store.IsImported(ctx, matchID)
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}

	match, err := p.playtomic.GetMatch(ctx, matchID)
	if err != nil {
		return false, err
	}
	payload, err := match.CompletionPayload()
	if errors.Is(err, playtomic.ErrNotRatable) {
		log.Debug("Skipping match", "matchID", matchID, "reason", err)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if dryRun {
		log.Info("[Dry Run] Would import match", "matchID", matchID, "winner", payload.WinnerID, "sets", payload.ScoreSummary.Sets)
		return true, nil
	}

	players := match.Players()
	profiles := make([]club.Profile, len(players))
	for i, pl := range players {
		profiles[i] = club.Profile{ID: pl.UserID, FullName: pl.Name}
	}
	if err := p.store.UpsertProfiles(ctx, profiles); err != nil {
		return false, err
	}
	err = p.store.UpsertEvent(ctx, club.Event{
		ID:        payload.EventID,
		MatchID:   payload.MatchID,
		PlayerAID: players[0].UserID,
		PlayerBID: players[1].UserID,
		Status:    club.EventInProgress,
		StartedAt: time.Unix(match.Start, 0),
	})
	if err != nil {
		return false, err
	}
	if err := p.store.CompleteEvent(ctx, payload.EventID, payload.WinnerID); err != nil {
		return false, err
	}
	if err := p.store.InsertSetScores(ctx, setScoreRows(payload.EventID, payload.ScoreSummary.Sets)); err != nil {
		return false, err
	}

	// Marked before rating so a retry never rates the same match twice.
	if err := p.store.MarkImported(ctx, matchID, payload.MatchID); err != nil {
		return false, err
	}
	if _, err := p.UpdateRatings(ctx, payload, false); err != nil {
		return false, err
	}
	p.metrics.IncMatchesImported()
	p.count(ctx, metrics.KeyMatchesImported)
	return true, nil
}
