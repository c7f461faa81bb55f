package playtomic

import (
	"fmt"

	"github.com/mauv0809/atr-tennis/internal/scoring"
)

// EventID is the local event id used for an imported Playtomic match.
func EventID(matchID string) string {
	return "playtomic-" + matchID
}

// Ratable reports whether m is a played singles match with a confirmed result.
func (m TennisMatch) Ratable() error {
	switch {
	case m.GameStatus != GameStatusPlayed:
		return fmt.Errorf("%w: game status %s", ErrNotRatable, m.GameStatus)
	case m.ResultsStatus != ResultsStatusConfirmed:
		return fmt.Errorf("%w: results status %s", ErrNotRatable, m.ResultsStatus)
	case len(m.Teams) != 2:
		return fmt.Errorf("%w: %d teams", ErrNotRatable, len(m.Teams))
	case len(m.Teams[0].Players) != 1 || len(m.Teams[1].Players) != 1:
		return fmt.Errorf("%w: not a singles match", ErrNotRatable)
	case len(m.Results) == 0:
		return fmt.Errorf("%w: no set results", ErrNotRatable)
	}
	return nil
}

// Players returns both players, first team first.
func (m TennisMatch) Players() []Player {
	var out []Player
	for _, t := range m.Teams {
		out = append(out, t.Players...)
	}
	return out
}

// CompletionPayload converts a ratable match into the payload consumed by the
// rating update. Sets are oriented so TeamA holds the winner's games.
func (m TennisMatch) CompletionPayload() (scoring.CompletionPayload, error) {
	if err := m.Ratable(); err != nil {
		return scoring.CompletionPayload{}, err
	}

	winIdx := -1
	for i, t := range m.Teams {
		if t.TeamResult == TeamResultWon {
			winIdx = i
		}
	}
	if winIdx < 0 {
		return scoring.CompletionPayload{}, fmt.Errorf("%w: no winning team", ErrNotRatable)
	}
	winner, loser := m.Teams[winIdx], m.Teams[1-winIdx]

	sets := make([]scoring.OrientedSet, 0, len(m.Results))
	for _, r := range m.Results {
		a, b := r.Scores[winner.ID], r.Scores[loser.ID]
		if a == 0 && b == 0 {
			continue
		}
		sets = append(sets, scoring.OrientedSet{TeamA: a, TeamB: b})
	}
	if len(sets) == 0 {
		return scoring.CompletionPayload{}, fmt.Errorf("%w: no games recorded", ErrNotRatable)
	}

	return scoring.CompletionPayload{
		MatchID:      m.MatchID,
		EventID:      EventID(m.MatchID),
		WinnerID:     winner.Players[0].UserID,
		LoserID:      loser.Players[0].UserID,
		ScoreSummary: scoring.ScoreSummary{Sets: sets},
	}, nil
}
