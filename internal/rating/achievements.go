package rating

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Milestones are the rating thresholds that unlock an achievement.
var Milestones = []int{1400, 1600, 1800, 2000}

// CrossedMilestones returns every milestone m with previous < m <= next.
func CrossedMilestones(previous, next int) []int {
	var crossed []int
	for _, m := range Milestones {
		if previous < m && m <= next {
			crossed = append(crossed, m)
		}
	}
	return crossed
}

func achievementsFor(matchID, winnerID string, winnerMatchesPlayed, previous, next int, at time.Time) []Achievement {
	var out []Achievement
	if winnerMatchesPlayed == 0 {
		out = append(out, Achievement{
			ID:              uuid.NewString(),
			PlayerID:        winnerID,
			AchievementType: AchievementFirstWin,
			AchievedAt:      at,
			Description:     "Won a first rated match",
			Data:            map[string]any{"match_id": matchID},
		})
	}
	for _, m := range CrossedMilestones(previous, next) {
		out = append(out, Achievement{
			ID:              uuid.NewString(),
			PlayerID:        winnerID,
			AchievementType: AchievementRatingMilestone,
			AchievedAt:      at,
			Description:     fmt.Sprintf("Reached an ATR of %d", m),
			Data:            map[string]any{"milestone": m, "rating": next, "match_id": matchID},
		})
	}
	return out
}
