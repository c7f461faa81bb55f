package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// New creates an engine for a best-of-three match between a and b.
func New(matchID, eventID string, a, b Player, opts ...Option) *Engine {
	e := &Engine{
		matchID: matchID,
		eventID: eventID,
		players: [2]Player{a, b},
		state:   StateInProgress,
		serving: SideA,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.started = e.now()
	return e
}

func (e *Engine) MatchID() string { return e.matchID }
func (e *Engine) EventID() string { return e.eventID }

// StartedAt returns the wall-clock time the session was created.
func (e *Engine) StartedAt() time.Time { return e.started }

// Complete reports whether the match has been decided.
func (e *Engine) Complete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateComplete
}

// RecordPoint applies a rally outcome. Winners score for side, errors by side
// score for the opponent and aces go through the serve check.
func (e *Engine) RecordPoint(side Side, kind PointKind) error {
	if !side.valid() {
		return ErrUnknownSide
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateComplete {
		return ErrMatchComplete
	}

	switch kind {
	case PointRegular, "":
		e.scorePoint(side, false)
	case PointWinner:
		e.sides[side].Winners++
		e.scorePoint(side, false)
	case PointError:
		e.sides[side].Errors++
		e.scorePoint(side.Opponent(), false)
	case PointAce:
		if side != e.serving {
			return ErrNotServing
		}
		e.scorePoint(side, true)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPointKind, kind)
	}
	return nil
}

// AddAce records an ace for side. Rejected unless side is serving.
func (e *Engine) AddAce(side Side) error {
	return e.RecordPoint(side, PointAce)
}

// ToggleServe hands the serve to the other side.
func (e *Engine) ToggleServe() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateComplete {
		return ErrMatchComplete
	}
	e.serving = e.serving.Opponent()
	e.appendLog(fmt.Sprintf("Serve switched to %s", e.label(e.serving)))
	return nil
}

// Tick advances the match clock by one second while the match is running.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateInProgress {
		e.elapsed++
	}
}

// RunClock ticks once a second until ctx is cancelled or the match completes.
func (e *Engine) RunClock(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick()
			if e.Complete() {
				log.Debug("Match clock stopped", "eventID", e.eventID)
				return
			}
		}
	}
}

// EndMatch freezes the match and returns the completion payload. It fails
// with ErrMatchNotFinished until one side holds two sets. Calling it again
// returns the same payload.
func (e *Engine) EndMatch() (CompletionPayload, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.payload != nil {
		return *e.payload, nil
	}

	a, b := e.sides[SideA].Sets, e.sides[SideB].Sets
	if (a < setsToWin && b < setsToWin) || a+b < setsToWin {
		return CompletionPayload{}, ErrMatchNotFinished
	}
	winner := SideA
	if b > a {
		winner = SideB
	}
	e.state = StateComplete

	history := make([]SetScore, len(e.history))
	copy(history, e.history)
	e.payload = &CompletionPayload{
		MatchID:      e.matchID,
		EventID:      e.eventID,
		WinnerID:     e.players[winner].ID,
		LoserID:      e.players[winner.Opponent()].ID,
		ScoreSummary: ScoreSummary{Sets: Reorient(history, winner)},
	}
	log.Info("Match ended", "eventID", e.eventID, "winner", e.players[winner].ID, "sets", len(history))
	return *e.payload, nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, b := e.sides[SideA].Points, e.sides[SideB].Points
	displayA, displayB := DisplayPoints(a, b)
	probA, probB := WinProbability(a, b)

	history := make([]SetScore, len(e.history))
	copy(history, e.history)
	actions := make([]LogEntry, len(e.actionLog))
	copy(actions, e.actionLog)

	return Snapshot{
		MatchID:        e.matchID,
		EventID:        e.eventID,
		Players:        e.players,
		State:          e.state,
		Serving:        e.serving,
		ElapsedSeconds: e.elapsed,
		Sides:          e.sides,
		Display:        [2]string{displayA, displayB},
		WinProbability: [2]int{probA, probB},
		SetHistory:     history,
		ActionLog:      actions,
	}
}

// scorePoint is the single transition for every point scored by side.
// Callers hold e.mu.
func (e *Engine) scorePoint(side Side, ace bool) {
	opp := side.Opponent()
	if ace {
		e.sides[side].Aces++
	}
	e.sides[side].Points++
	e.sides[side].PointsWon++

	if !gameWon(e.sides[side].Points, e.sides[opp].Points) {
		return
	}
	e.sides[side].Games++
	e.sides[SideA].Points, e.sides[SideB].Points = 0, 0
	e.serving = e.serving.Opponent()
	e.appendLog(fmt.Sprintf("Game won by %s", e.label(side)))

	if !setWon(e.sides[side].Games, e.sides[opp].Games) {
		return
	}
	set := SetScore{GamesA: e.sides[SideA].Games, GamesB: e.sides[SideB].Games}
	e.history = append(e.history, set)
	e.sides[side].Sets++
	e.sides[SideA].Games, e.sides[SideB].Games = 0, 0
	e.appendLog(fmt.Sprintf("Set %d won by %s (%d-%d)", len(e.history), e.label(side), set.GamesA, set.GamesB))

	if e.sides[side].Sets < setsToWin {
		return
	}
	e.state = StateComplete
	e.appendLog(fmt.Sprintf("Match won by %s", e.label(side)))
	log.Info("Match decided", "eventID", e.eventID, "winner", e.players[side].ID, "elapsed_seconds", e.elapsed)
}

func gameWon(points, opponentPoints int) bool {
	return points >= 4 && points-opponentPoints >= 2
}

// setWon treats 7-6 as a won set; tiebreak points are not tracked.
func setWon(games, opponentGames int) bool {
	if games >= 6 && games-opponentGames >= 2 {
		return true
	}
	return games == 7 && opponentGames == 6
}

func (e *Engine) appendLog(description string) {
	entry := LogEntry{Description: description, TimestampSeconds: e.elapsed}
	e.actionLog = append([]LogEntry{entry}, e.actionLog...)
	if len(e.actionLog) > maxLogEntries {
		e.actionLog = e.actionLog[:maxLogEntries]
	}
}

func (e *Engine) label(side Side) string {
	p := e.players[side]
	switch {
	case p.Name != "":
		return p.Name
	case p.ID != "":
		return p.ID
	}
	return "Player " + side.String()
}
