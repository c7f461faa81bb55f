package rating

import (
	"math"

	"github.com/mauv0809/atr-tennis/internal/scoring"
)

// GameTotals credits the larger game count of every set to the match winner
// and the smaller to the loser. Sets the loser won therefore still count
// toward the winner's share.
func GameTotals(sets []scoring.OrientedSet) (winnerGames, loserGames int) {
	for _, set := range sets {
		winnerGames += max(set.TeamA, set.TeamB)
		loserGames += min(set.TeamA, set.TeamB)
	}
	return winnerGames, loserGames
}

// ExpectedScore is the logistic ELO expectation for the winner.
func ExpectedScore(winnerRating, loserRating int) float64 {
	return 1 / (1 + math.Pow(10, float64(loserRating-winnerRating)/400))
}

// KFactor picks the K-factor from the winner's matches played before this one.
func KFactor(winnerMatchesPlayed int, s Settings) int {
	if winnerMatchesPlayed < s.MatchesForEstablished {
		return s.ProvisionalKFactor
	}
	return s.EstablishedKFactor
}

// Clamp bounds a rating to the configured scale.
func Clamp(r int, s Settings) int {
	if r < s.RatingScaleMin {
		return s.RatingScaleMin
	}
	if r > s.RatingScaleMax {
		return s.RatingScaleMax
	}
	return r
}

// Compute applies the game-weighted ELO formula. The actual score is the
// winner's share of games, not 1.0, so the margin of victory scales the change.
func Compute(sets []scoring.OrientedSet, winnerRating, loserRating, k int, s Settings) (Result, error) {
	winnerGames, loserGames := GameTotals(sets)
	total := winnerGames + loserGames
	if total <= 0 {
		return Result{}, ErrDegenerateScore
	}

	actual := float64(winnerGames) / float64(total)
	expected := ExpectedScore(winnerRating, loserRating)
	change := int(math.Round(float64(k) * (actual - expected)))

	return Result{
		WinnerGames:       winnerGames,
		LoserGames:        loserGames,
		WinnerGamePercent: actual,
		ExpectedScore:     expected,
		KFactor:           k,
		RatingChange:      change,
		WinnerNewRating:   Clamp(winnerRating+change, s),
		LoserNewRating:    Clamp(loserRating-change, s),
	}, nil
}
