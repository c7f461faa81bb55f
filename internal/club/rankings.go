package club

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/atr-tennis/internal/rating"
)

// GetRankings returns every profile ordered by rating, highest first.
// Players tied on rating share a position.
func (s *store) GetRankings(ctx context.Context) ([]Ranking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, full_name, current_rating, matches_played, rating_status
		FROM profiles
		ORDER BY current_rating IS NULL, current_rating DESC, full_name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ranking
	for rows.Next() {
		var (
			r       Ranking
			current sql.NullInt64
		)
		if err := rows.Scan(&r.PlayerID, &r.PlayerName, &current, &r.MatchesPlayed, &r.RatingStatus); err != nil {
			return nil, err
		}
		if current.Valid {
			v := int(current.Int64)
			r.Rating = &v
		}
		r.Position = len(out) + 1
		if prev := len(out) - 1; prev >= 0 && sameRating(out[prev].Rating, r.Rating) {
			r.Position = out[prev].Position
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func sameRating(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// GetRankingHistory returns a player's rating timeline, oldest first.
func (s *store) GetRankingHistory(ctx context.Context, playerID string) ([]rating.RankingHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, ranking_type, points, points_change, calculation_date
		FROM ranking_history WHERE profile_id = ?
		ORDER BY calculation_date ASC, rowid ASC
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rating.RankingHistory
	for rows.Next() {
		var (
			h  rating.RankingHistory
			at int64
		)
		if err := rows.Scan(&h.ID, &h.ProfileID, &h.RankingType, &h.Points, &h.PointsChange, &at); err != nil {
			return nil, err
		}
		h.CalculationDate = time.Unix(at, 0).UTC()
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *store) GetAchievements(ctx context.Context, playerID string) ([]rating.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, player_id, achievement_type, achieved_at, description, data_json
		FROM achievements WHERE player_id = ?
		ORDER BY achieved_at ASC, rowid ASC
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rating.Achievement
	for rows.Next() {
		var (
			a    rating.Achievement
			at   int64
			data sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.PlayerID, &a.AchievementType, &at, &a.Description, &data); err != nil {
			return nil, err
		}
		a.AchievedAt = time.Unix(at, 0).UTC()
		if data.Valid && data.String != "" {
			if err := json.Unmarshal([]byte(data.String), &a.Data); err != nil {
				log.Error("Failed to unmarshal achievement data", "error", err, "achievementID", a.ID)
			}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
