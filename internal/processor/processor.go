package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/metrics"
	"github.com/mauv0809/atr-tennis/internal/rating"
	"github.com/mauv0809/atr-tennis/internal/scoring"
	"go.uber.org/multierr"
)

var (
	ErrInvalidRequest      = errors.New("invalid start request")
	ErrImportNotConfigured = errors.New("playtomic import is not configured")
)

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics, dispatcher Dispatcher, opts ...Option) *Processor {
	p := &Processor{
		store:      store,
		ratings:    rating.NewService(store),
		dispatcher: dispatcher,
		notifier:   notifier,
		metrics:    metrics,
		sessions:   scoring.NewRegistry(),
		clocks:     make(map[string]context.CancelFunc),
		committed:  make(map[string]map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StartMatch opens a live session, records the event as in progress and
// starts the match clock.
func (p *Processor) StartMatch(ctx context.Context, req StartMatchRequest) (*scoring.Engine, error) {
	if req.PlayerA.ID == "" || req.PlayerB.ID == "" || req.PlayerA.ID == req.PlayerB.ID {
		return nil, fmt.Errorf("%w: two distinct player ids are required", ErrInvalidRequest)
	}
	if req.EventID == "" {
		req.EventID = uuid.NewString()
	}
	if req.MatchID == "" {
		req.MatchID = uuid.NewString()
	}
	var opts []scoring.Option
	if req.Server != nil {
		opts = append(opts, scoring.WithServer(*req.Server))
	}

	engine := scoring.New(req.MatchID, req.EventID, req.PlayerA, req.PlayerB, opts...)
	if err := p.sessions.Start(engine); err != nil {
		return nil, err
	}

	err := p.store.UpsertProfiles(ctx, []club.Profile{
		{ID: req.PlayerA.ID, FullName: displayName(req.PlayerA)},
		{ID: req.PlayerB.ID, FullName: displayName(req.PlayerB)},
	})
	if err == nil {
		err = p.store.UpsertEvent(ctx, club.Event{
			ID:        req.EventID,
			MatchID:   req.MatchID,
			PlayerAID: req.PlayerA.ID,
			PlayerBID: req.PlayerB.ID,
			Status:    club.EventInProgress,
			StartedAt: engine.StartedAt(),
		})
	}
	if err != nil {
		p.sessions.Remove(req.EventID)
		return nil, fmt.Errorf("failed to record event %s: %w", req.EventID, err)
	}

	clockCtx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	p.clocks[req.EventID] = cancel
	p.mu.Unlock()
	go engine.RunClock(clockCtx)

	p.metrics.IncMatchesStarted()
	log.Info("Live match started", "eventID", req.EventID, "matchID", req.MatchID, "playerA", req.PlayerA.ID, "playerB", req.PlayerB.ID)
	return engine, nil
}

// Session returns the live session for an event.
func (p *Processor) Session(eventID string) (*scoring.Engine, error) {
	return p.sessions.Get(eventID)
}

// LiveEvents lists the events with a live session.
func (p *Processor) LiveEvents() []string {
	return p.sessions.EventIDs()
}

// CompleteMatch ends the live match and runs the completion steps in order.
// Every step runs even when an earlier one failed; failures are returned as
// one aggregated error. Nothing already written is rolled back. The session
// is released only when all steps succeed, so a failed completion can be
// retried. A retry skips the steps that already committed, so the match is
// published, and rated, at most once.
func (p *Processor) CompleteMatch(ctx context.Context, eventID string, dryRun bool) (scoring.CompletionPayload, error) {
	engine, err := p.sessions.Get(eventID)
	if err != nil {
		return scoring.CompletionPayload{}, err
	}
	payload, err := engine.EndMatch()
	if err != nil {
		return scoring.CompletionPayload{}, err
	}
	p.stopClock(eventID)

	start := time.Now()
	logger := log.With("eventID", eventID, "matchID", payload.MatchID)
	snap := engine.Snapshot()

	if dryRun {
		logger.Info("[Dry Run] Would persist and publish completed match", "winner", payload.WinnerID, "sets", payload.ScoreSummary.Sets)
		return payload, nil
	}

	steps := []step{
		{StepUpdateEventStatus, func(ctx context.Context) error {
			return p.store.CompleteEvent(ctx, eventID, payload.WinnerID)
		}},
		{StepInsertSetScores, func(ctx context.Context) error {
			return p.store.InsertSetScores(ctx, setScoreRows(eventID, payload.ScoreSummary.Sets))
		}},
		{StepInsertMatchStats, func(ctx context.Context) error {
			return p.store.InsertMatchStats(ctx, matchStatRows(eventID, snap))
		}},
		{StepPublishCompleted, func(ctx context.Context) error {
			return p.dispatcher.PublishMatchCompleted(ctx, payload)
		}},
	}

	var errs error
	for _, st := range steps {
		if p.stepCommitted(eventID, st.name) {
			logger.Debug("Completion step already committed", "step", st.name)
			continue
		}
		if err := st.run(ctx); err != nil {
			logger.Error("Completion step failed", "step", st.name, "error", err)
			p.metrics.IncCompletionStepFailed(st.name)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", st.name, err))
			continue
		}
		p.commitStep(eventID, st.name)
		logger.Debug("Completion step done", "step", st.name)
	}

	p.metrics.ObserveCompletionDuration(time.Since(start).Seconds())
	if errs != nil {
		return payload, errs
	}

	p.sessions.Remove(eventID)
	p.forgetSteps(eventID)
	p.metrics.IncMatchesCompleted()
	p.count(ctx, metrics.KeyMatchesCompleted)
	logger.Info("Match completed", "winner", payload.WinnerID, "loser", payload.LoserID, "sets", len(payload.ScoreSummary.Sets))
	return payload, nil
}

// AbandonMatch drops a live session without recording a result.
func (p *Processor) AbandonMatch(eventID string) error {
	if _, err := p.sessions.Get(eventID); err != nil {
		return err
	}
	p.stopClock(eventID)
	p.sessions.Remove(eventID)
	p.forgetSteps(eventID)
	log.Info("Live match abandoned", "eventID", eventID)
	return nil
}

// Shutdown stops every running match clock.
func (p *Processor) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, cancel := range p.clocks {
		cancel()
		delete(p.clocks, id)
	}
}

type step struct {
	name string
	run  func(ctx context.Context) error
}

func (p *Processor) stopClock(eventID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cancel, ok := p.clocks[eventID]; ok {
		cancel()
		delete(p.clocks, eventID)
	}
}

func (p *Processor) stepCommitted(eventID, name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.committed[eventID][name]
}

func (p *Processor) commitStep(eventID, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.committed[eventID] == nil {
		p.committed[eventID] = make(map[string]bool)
	}
	p.committed[eventID][name] = true
}

func (p *Processor) forgetSteps(eventID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.committed, eventID)
}

func (p *Processor) count(ctx context.Context, key string) {
	if p.counters != nil {
		p.counters.Increment(ctx, key)
	}
}

func setScoreRows(eventID string, sets []scoring.OrientedSet) []club.SetScoreRow {
	rows := make([]club.SetScoreRow, len(sets))
	for i, s := range sets {
		rows[i] = club.SetScoreRow{
			ID:         uuid.NewString(),
			EventID:    eventID,
			SetNumber:  i + 1,
			TeamAGames: s.TeamA,
			TeamBGames: s.TeamB,
			TiebreakA:  s.TiebreakA,
			TiebreakB:  s.TiebreakB,
		}
	}
	return rows
}

func matchStatRows(eventID string, snap scoring.Snapshot) []club.MatchStat {
	rows := make([]club.MatchStat, 0, 2)
	for _, side := range []scoring.Side{scoring.SideA, scoring.SideB} {
		st := snap.Sides[side]
		games := 0
		for _, set := range snap.SetHistory {
			if side == scoring.SideA {
				games += set.GamesA
			} else {
				games += set.GamesB
			}
		}
		rows = append(rows, club.MatchStat{
			ID:              uuid.NewString(),
			EventID:         eventID,
			PlayerID:        snap.Players[side].ID,
			SetsWon:         st.Sets,
			GamesWon:        games,
			PointsWon:       st.PointsWon,
			Aces:            st.Aces,
			Winners:         st.Winners,
			Errors:          st.Errors,
			DurationSeconds: snap.ElapsedSeconds,
		})
	}
	return rows
}

func displayName(p scoring.Player) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
