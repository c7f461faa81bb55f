package rating

import "time"

// Settings are the club-wide rating parameters. Read-only to this package.
type Settings struct {
	ProvisionalKFactor    int `json:"provisional_k_factor"`
	EstablishedKFactor    int `json:"established_k_factor"`
	InitialRating         int `json:"initial_rating"`
	MatchesForEstablished int `json:"matches_for_established"`
	RatingScaleMin        int `json:"rating_scale_min"`
	RatingScaleMax        int `json:"rating_scale_max"`
}

// DefaultSettings mirror the values seeded into a fresh database.
var DefaultSettings = Settings{
	ProvisionalKFactor:    40,
	EstablishedKFactor:    32,
	InitialRating:         1000,
	MatchesForEstablished: 10,
	RatingScaleMin:        100,
	RatingScaleMax:        3000,
}

// Status is the confidence level of a player's rating.
type Status string

const (
	StatusProvisional Status = "provisional"
	StatusEstablished Status = "established"
)

// StatusFor derives the rating status from the number of matches played.
func StatusFor(matchesPlayed int, s Settings) Status {
	if matchesPlayed >= s.MatchesForEstablished {
		return StatusEstablished
	}
	return StatusProvisional
}

// PlayerRating is the persisted rating state of a profile. CurrentRating is
// nil for players who have never been rated.
type PlayerRating struct {
	ID            string
	CurrentRating *int
	MatchesPlayed int
}

// ProfileUpdate is written back to a profile after a match.
type ProfileUpdate struct {
	CurrentRating int
	MatchesPlayed int
	RatingStatus  Status
	UpdatedAt     time.Time
}

const RankingTypeSingles = "singles"

// RankingHistory is one point on a player's rating timeline.
type RankingHistory struct {
	ID              string    `json:"id"`
	ProfileID       string    `json:"profile_id"`
	RankingType     string    `json:"ranking_type"`
	Points          int       `json:"points"`
	PointsChange    int       `json:"points_change"`
	CalculationDate time.Time `json:"calculation_date"`
}

// AchievementType identifies an achievement kind.
type AchievementType string

const (
	AchievementFirstWin        AchievementType = "first_win"
	AchievementRatingMilestone AchievementType = "rating_milestone"
)

// Achievement is an unlocked badge for a player.
type Achievement struct {
	ID              string          `json:"id"`
	PlayerID        string          `json:"player_id"`
	AchievementType AchievementType `json:"achievement_type"`
	AchievedAt      time.Time       `json:"achieved_at"`
	Description     string          `json:"description"`
	Data            map[string]any  `json:"data,omitempty"`
}

// Result is the pure outcome of the rating formula.
type Result struct {
	WinnerGames       int
	LoserGames        int
	WinnerGamePercent float64
	ExpectedScore     float64
	KFactor           int
	RatingChange      int
	WinnerNewRating   int
	LoserNewRating    int
}

// Outcome describes what UpdateRatings computed and persisted.
type Outcome struct {
	MatchID         string        `json:"match_id"`
	WinnerID        string        `json:"winner_id"`
	LoserID         string        `json:"loser_id"`
	WinnerOldRating int           `json:"winner_old_rating"`
	LoserOldRating  int           `json:"loser_old_rating"`
	WinnerNewRating int           `json:"winnerNewRating"`
	LoserNewRating  int           `json:"loserNewRating"`
	RatingChange    int           `json:"rating_change"`
	MatchesPlayed   int           `json:"matches_played"`
	Achievements    []Achievement `json:"achievements,omitempty"`
	CompletedSteps  []string      `json:"completed_steps"`
}
