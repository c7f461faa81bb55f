package club

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/mauv0809/atr-tennis/internal/rating"
)

var ErrNotFound = errors.New("not found")

// store handles all database operations for the club.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Profile is a club member as stored in the profiles table.
type Profile struct {
	ID            string        `json:"id"`
	FullName      string        `json:"full_name"`
	SlackUserID   *string       `json:"slack_user_id,omitempty"`
	CurrentRating *int          `json:"current_rating,omitempty"`
	MatchesPlayed int           `json:"matches_played"`
	RatingStatus  rating.Status `json:"rating_status"`
}

type EventStatus string

const (
	EventScheduled  EventStatus = "scheduled"
	EventInProgress EventStatus = "in_progress"
	EventCompleted  EventStatus = "completed"
)

// Event is one scheduled or played singles match.
type Event struct {
	ID          string      `json:"id"`
	MatchID     string      `json:"match_id"`
	PlayerAID   string      `json:"player_a_id"`
	PlayerBID   string      `json:"player_b_id"`
	Status      EventStatus `json:"status"`
	WinnerID    string      `json:"winner_id,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// SetScoreRow is one finished set, oriented so TeamA is the match winner.
type SetScoreRow struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	SetNumber  int    `json:"set_number"`
	TeamAGames int    `json:"team_a_games"`
	TeamBGames int    `json:"team_b_games"`
	TiebreakA  *int   `json:"tiebreak_a,omitempty"`
	TiebreakB  *int   `json:"tiebreak_b,omitempty"`
}

// MatchStat holds one player's counters for a finished match.
type MatchStat struct {
	ID              string `json:"id"`
	EventID         string `json:"event_id"`
	PlayerID        string `json:"player_id"`
	SetsWon         int    `json:"sets_won"`
	GamesWon        int    `json:"games_won"`
	PointsWon       int    `json:"points_won"`
	Aces            int    `json:"aces"`
	Winners         int    `json:"winners"`
	Errors          int    `json:"errors"`
	DurationSeconds int    `json:"duration_seconds"`
}

// Ranking is a leaderboard row. Unrated players are listed last.
type Ranking struct {
	Position      int           `json:"position"`
	PlayerID      string        `json:"player_id"`
	PlayerName    string        `json:"player_name"`
	Rating        *int          `json:"rating,omitempty"`
	MatchesPlayed int           `json:"matches_played"`
	RatingStatus  rating.Status `json:"rating_status"`
}
