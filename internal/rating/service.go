package rating

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/atr-tennis/internal/scoring"
)

// Service applies rating updates for completed matches.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a new rating Service backed by store.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// step is one persisted write. Steps run in order and are not rolled back.
type step struct {
	name string
	run  func(ctx context.Context) error
}

const (
	StepWinnerProfile = "update-winner-profile"
	StepLoserProfile  = "update-loser-profile"
	StepHistory       = "insert-ranking-history"
	StepAchievements  = "insert-achievements"
)

// UpdateRatings reads the current ratings of both players, computes the new
// ones and persists profiles, history rows and achievements in that order.
// Current ratings are re-read on every call, so a retry never compounds a
// stale rating, but a retry after a partial write may apply the change twice.
func (s *Service) UpdateRatings(ctx context.Context, payload scoring.CompletionPayload) (Outcome, error) {
	if err := validate(payload); err != nil {
		return Outcome{}, err
	}
	logger := log.With("matchID", payload.MatchID, "eventID", payload.EventID)

	settings, err := s.store.GetSystemSettings(ctx)
	if err != nil {
		logger.Error("Failed to read system settings", "error", err)
		return Outcome{}, &DependencyReadError{Op: "system-settings", MatchID: payload.MatchID, Err: err}
	}

	winner, loser, err := s.readPlayers(ctx, payload)
	if err != nil {
		logger.Error("Failed to read player ratings", "error", err)
		return Outcome{}, &DependencyReadError{Op: "profile-ratings", MatchID: payload.MatchID, Err: err}
	}

	winnerRating := ratingOrInitial(winner, settings)
	loserRating := ratingOrInitial(loser, settings)
	k := KFactor(winner.MatchesPlayed, settings)

	result, err := Compute(payload.ScoreSummary.Sets, winnerRating, loserRating, k, settings)
	if err != nil {
		logger.Error("Failed to compute ratings", "error", err)
		return Outcome{}, err
	}

	now := s.now()
	// Both players get the winner's count + 1.
	matchesPlayed := winner.MatchesPlayed + 1
	status := StatusFor(matchesPlayed, settings)
	achievements := achievementsFor(payload.MatchID, payload.WinnerID, winner.MatchesPlayed, winnerRating, result.WinnerNewRating, now)

	outcome := Outcome{
		MatchID:         payload.MatchID,
		WinnerID:        payload.WinnerID,
		LoserID:         payload.LoserID,
		WinnerOldRating: winnerRating,
		LoserOldRating:  loserRating,
		WinnerNewRating: result.WinnerNewRating,
		LoserNewRating:  result.LoserNewRating,
		RatingChange:    result.RatingChange,
		MatchesPlayed:   matchesPlayed,
		Achievements:    achievements,
	}
	logger.Info("Computed rating change",
		"winner", payload.WinnerID, "loser", payload.LoserID,
		"game_percentage", result.WinnerGamePercent, "expected", result.ExpectedScore,
		"k", k, "change", result.RatingChange)

	steps := []step{
		{StepWinnerProfile, func(ctx context.Context) error {
			return s.store.UpdateProfile(ctx, payload.WinnerID, ProfileUpdate{
				CurrentRating: result.WinnerNewRating,
				MatchesPlayed: matchesPlayed,
				RatingStatus:  status,
				UpdatedAt:     now,
			})
		}},
		{StepLoserProfile, func(ctx context.Context) error {
			return s.store.UpdateProfile(ctx, payload.LoserID, ProfileUpdate{
				CurrentRating: result.LoserNewRating,
				MatchesPlayed: matchesPlayed,
				RatingStatus:  status,
				UpdatedAt:     now,
			})
		}},
		{StepHistory, func(ctx context.Context) error {
			return s.store.InsertRankingHistory(ctx, []RankingHistory{
				{ID: uuid.NewString(), ProfileID: payload.WinnerID, RankingType: RankingTypeSingles, Points: result.WinnerNewRating, PointsChange: result.RatingChange, CalculationDate: now},
				{ID: uuid.NewString(), ProfileID: payload.LoserID, RankingType: RankingTypeSingles, Points: result.LoserNewRating, PointsChange: -result.RatingChange, CalculationDate: now},
			})
		}},
		{StepAchievements, func(ctx context.Context) error {
			if len(achievements) == 0 {
				return nil
			}
			return s.store.InsertAchievements(ctx, achievements)
		}},
	}

	outcome.CompletedSteps = make([]string, 0, len(steps))
	for _, st := range steps {
		if err := st.run(ctx); err != nil {
			logger.Error("Rating update step failed", "step", st.name, "completed", outcome.CompletedSteps, "error", err)
			return outcome, &DependencyWriteError{Step: st.name, MatchID: payload.MatchID, Err: err}
		}
		outcome.CompletedSteps = append(outcome.CompletedSteps, st.name)
		logger.Debug("Rating update step done", "step", st.name)
	}

	logger.Info("Ratings updated",
		"winner_rating", result.WinnerNewRating, "loser_rating", result.LoserNewRating,
		"achievements", len(achievements))
	return outcome, nil
}

func (s *Service) readPlayers(ctx context.Context, payload scoring.CompletionPayload) (PlayerRating, PlayerRating, error) {
	rows, err := s.store.GetProfileRatings(ctx, []string{payload.WinnerID, payload.LoserID})
	if err != nil {
		return PlayerRating{}, PlayerRating{}, err
	}
	byID := make(map[string]PlayerRating, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	winner, ok := byID[payload.WinnerID]
	if !ok {
		return PlayerRating{}, PlayerRating{}, &missingProfileError{id: payload.WinnerID}
	}
	loser, ok := byID[payload.LoserID]
	if !ok {
		return PlayerRating{}, PlayerRating{}, &missingProfileError{id: payload.LoserID}
	}
	return winner, loser, nil
}

type missingProfileError struct{ id string }

func (e *missingProfileError) Error() string { return ErrProfileNotFound.Error() + ": " + e.id }
func (e *missingProfileError) Unwrap() error { return ErrProfileNotFound }

func ratingOrInitial(p PlayerRating, s Settings) int {
	if p.CurrentRating == nil {
		return s.InitialRating
	}
	return *p.CurrentRating
}

func validate(p scoring.CompletionPayload) error {
	switch {
	case p.MatchID == "":
		return &ValidationError{Field: "matchId", Reason: "is required"}
	case p.WinnerID == "":
		return &ValidationError{Field: "winnerId", Reason: "is required"}
	case p.LoserID == "":
		return &ValidationError{Field: "loserId", Reason: "is required"}
	case p.WinnerID == p.LoserID:
		return &ValidationError{Field: "loserId", Reason: "must differ from winnerId"}
	}
	return nil
}
