package scoring

import (
	"math"
	"strconv"
)

var pointLabels = [...]string{"0", "15", "30", "40"}

// DisplayPoints renders the in-game score for both sides.
func DisplayPoints(a, b int) (string, string) {
	if a >= 3 && b >= 3 {
		switch a - b {
		case 0:
			return "Deuce", "Deuce"
		case 1:
			return "Ad", "40"
		case -1:
			return "40", "Ad"
		}
	}
	return pointLabel(a), pointLabel(b)
}

func pointLabel(points int) string {
	if points >= 0 && points < len(pointLabels) {
		return pointLabels[points]
	}
	return strconv.Itoa(points)
}

// WinProbability is each side's share of the points played in the current
// game, in whole percent. Display only.
func WinProbability(a, b int) (int, int) {
	total := a + b
	if total <= 0 {
		return 50, 50
	}
	pa := int(math.Round(float64(a) * 100 / float64(total)))
	return pa, 100 - pa
}

// Reorient maps a side-keyed set history onto winner/loser columns so that
// TeamA always holds the match winner's games.
func Reorient(history []SetScore, winner Side) []OrientedSet {
	sets := make([]OrientedSet, 0, len(history))
	for _, s := range history {
		if winner == SideB {
			sets = append(sets, OrientedSet{TeamA: s.GamesB, TeamB: s.GamesA})
			continue
		}
		sets = append(sets, OrientedSet{TeamA: s.GamesA, TeamB: s.GamesB})
	}
	return sets
}
