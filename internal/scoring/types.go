package scoring

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Side identifies one of the two competitors in a match.
type Side int

const (
	SideA Side = iota
	SideB
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

func (s Side) valid() bool {
	return s == SideA || s == SideB
}

// MarshalText encodes a side as "A" or "B".
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes "A" or "B" (case-insensitive).
func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// ParseSide converts "A"/"B" into a Side.
func ParseSide(value string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "A":
		return SideA, nil
	case "B":
		return SideB, nil
	}
	return SideA, fmt.Errorf("%w: %q", ErrUnknownSide, value)
}

// PointKind describes how a point was won or lost.
type PointKind string

const (
	PointRegular PointKind = "REGULAR"
	PointWinner  PointKind = "WINNER"
	PointError   PointKind = "ERROR"
	PointAce     PointKind = "ACE"
)

// ParsePointKind normalises a point kind. An empty value is a regular point.
func ParsePointKind(value string) (PointKind, error) {
	switch kind := PointKind(strings.ToUpper(strings.TrimSpace(value))); kind {
	case "":
		return PointRegular, nil
	case PointRegular, PointWinner, PointError, PointAce:
		return kind, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPointKind, value)
}

// State is the lifecycle state of a live match.
type State string

const (
	StateInProgress State = "IN_PROGRESS"
	StateComplete   State = "COMPLETE"
)

var (
	ErrMatchComplete    = errors.New("match is already complete")
	ErrMatchNotFinished = errors.New("match is not finished: a side needs two sets")
	ErrNotServing       = errors.New("only the serving side can hit an ace")
	ErrUnknownSide      = errors.New("unknown side")
	ErrUnknownPointKind = errors.New("unknown point kind")
)

const (
	setsToWin     = 2
	maxLogEntries = 20
)

// Player is a competitor on one side of the match.
type Player struct {
	ID   string `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
}

// SideStats holds the running counters for one side.
// Points is the score in the current game; PointsWon is the match total.
type SideStats struct {
	Sets      int `json:"sets"`
	Games     int `json:"games"`
	Points    int `json:"points"`
	PointsWon int `json:"points_won"`
	Aces      int `json:"aces"`
	Winners   int `json:"winners"`
	Errors    int `json:"errors"`
}

// SetScore is a finished set, games by side.
type SetScore struct {
	GamesA int `json:"games_a" msgpack:"games_a"`
	GamesB int `json:"games_b" msgpack:"games_b"`
}

// LogEntry is one line of the scorer's action log.
type LogEntry struct {
	Description      string `json:"description"`
	TimestampSeconds int    `json:"timestamp_seconds"`
}

// OrientedSet is a finished set, games by match outcome: TeamA is always the
// match winner and TeamB the loser.
type OrientedSet struct {
	TeamA     int  `json:"teamA" msgpack:"team_a"`
	TeamB     int  `json:"teamB" msgpack:"team_b"`
	TiebreakA *int `json:"tiebreakA,omitempty" msgpack:"tiebreak_a,omitempty"`
	TiebreakB *int `json:"tiebreakB,omitempty" msgpack:"tiebreak_b,omitempty"`
}

// ScoreSummary is the final score handed to the rating pipeline.
type ScoreSummary struct {
	Sets []OrientedSet `json:"sets" msgpack:"sets"`
}

// CompletionPayload is built once when a match ends and never changes.
type CompletionPayload struct {
	MatchID      string       `json:"matchId" msgpack:"match_id"`
	EventID      string       `json:"eventId" msgpack:"event_id"`
	WinnerID     string       `json:"winnerId" msgpack:"winner_id"`
	LoserID      string       `json:"loserId" msgpack:"loser_id"`
	ScoreSummary ScoreSummary `json:"scoreSummary" msgpack:"score_summary"`
}

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	MatchID        string       `json:"match_id"`
	EventID        string       `json:"event_id"`
	Players        [2]Player    `json:"players"`
	State          State        `json:"state"`
	Serving        Side         `json:"serving"`
	ElapsedSeconds int          `json:"elapsed_seconds"`
	Sides          [2]SideStats `json:"sides"`
	Display        [2]string    `json:"display"`
	WinProbability [2]int       `json:"win_probability"`
	SetHistory     []SetScore   `json:"set_history"`
	ActionLog      []LogEntry   `json:"action_log"`
}

// Winner returns the side with more sets. Only meaningful once complete.
func (s Snapshot) Winner() Side {
	if s.Sides[SideB].Sets > s.Sides[SideA].Sets {
		return SideB
	}
	return SideA
}

// Engine holds the live state of a single match. One scorer drives it; the
// mutex only serialises the clock goroutine against score mutations.
type Engine struct {
	mu sync.Mutex

	matchID string
	eventID string
	players [2]Player

	state     State
	serving   Side
	elapsed   int
	sides     [2]SideStats
	history   []SetScore
	actionLog []LogEntry
	payload   *CompletionPayload

	now     func() time.Time
	started time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithServer sets who serves first. Defaults to SideA.
func WithServer(side Side) Option {
	return func(e *Engine) {
		if side.valid() {
			e.serving = side
		}
	}
}

// WithClock overrides the wall clock used for StartedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}
