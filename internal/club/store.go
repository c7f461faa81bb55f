package club

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/atr-tennis/internal/rating"
)

var _ ClubStore = (*store)(nil)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db:  db,
		now: time.Now,
	}
}

// GetSystemSettings reads the rating parameters. A missing row falls back to
// the defaults seeded by the first migration.
func (s *store) GetSystemSettings(ctx context.Context) (rating.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st rating.Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT provisional_k_factor, established_k_factor, initial_rating, matches_for_established, min_rating, max_rating
		FROM system_settings WHERE id = 1
	`).Scan(&st.ProvisionalKFactor, &st.EstablishedKFactor, &st.InitialRating, &st.MatchesForEstablished, &st.RatingScaleMin, &st.RatingScaleMax)
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn("No system settings row, using defaults")
		return rating.DefaultSettings, nil
	}
	if err != nil {
		return rating.Settings{}, fmt.Errorf("failed to read system settings: %w", err)
	}
	return st, nil
}

func (s *store) SaveSystemSettings(ctx context.Context, st rating.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_settings (id, provisional_k_factor, established_k_factor, initial_rating, matches_for_established, min_rating, max_rating)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			provisional_k_factor = excluded.provisional_k_factor,
			established_k_factor = excluded.established_k_factor,
			initial_rating = excluded.initial_rating,
			matches_for_established = excluded.matches_for_established,
			min_rating = excluded.min_rating,
			max_rating = excluded.max_rating;
	`, st.ProvisionalKFactor, st.EstablishedKFactor, st.InitialRating, st.MatchesForEstablished, st.RatingScaleMin, st.RatingScaleMax)
	return err
}

// GetProfileRatings returns the rating state of every known id. Unknown ids
// are left out of the result.
func (s *store) GetProfileRatings(ctx context.Context, ids []string) ([]rating.PlayerRating, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := fmt.Sprintf(`SELECT id, current_rating, matches_played FROM profiles WHERE id IN (%s)`, placeholders(len(ids)))
	rows, err := s.db.QueryContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rating.PlayerRating
	for rows.Next() {
		var (
			p       rating.PlayerRating
			current sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &current, &p.MatchesPlayed); err != nil {
			return nil, err
		}
		if current.Valid {
			v := int(current.Int64)
			p.CurrentRating = &v
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *store) UpdateProfile(ctx context.Context, id string, u rating.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET current_rating = ?, matches_played = ?, rating_status = ?, updated_at = ?
		WHERE id = ?
	`, u.CurrentRating, u.MatchesPlayed, u.RatingStatus, u.UpdatedAt.Unix(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *store) InsertRankingHistory(ctx context.Context, rows []rating.RankingHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertAll(ctx, `
		INSERT INTO ranking_history (id, profile_id, ranking_type, points, points_change, calculation_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, len(rows), func(i int) []any {
		r := rows[i]
		return []any{r.ID, r.ProfileID, r.RankingType, r.Points, r.PointsChange, r.CalculationDate.Unix()}
	})
}

func (s *store) InsertAchievements(ctx context.Context, rows []rating.Achievement) error {
	data := make([][]byte, len(rows))
	for i, a := range rows {
		if a.Data == nil {
			continue
		}
		b, err := json.Marshal(a.Data)
		if err != nil {
			return fmt.Errorf("failed to encode achievement data: %w", err)
		}
		data[i] = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertAll(ctx, `
		INSERT INTO achievements (id, player_id, achievement_type, achieved_at, description, data_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`, len(rows), func(i int) []any {
		a := rows[i]
		var js any
		if data[i] != nil {
			js = string(data[i])
		}
		return []any{a.ID, a.PlayerID, a.AchievementType, a.AchievedAt.Unix(), a.Description, js}
	})
}

// UpsertProfiles inserts new profiles or refreshes the name and Slack id of
// existing ones. Rating columns are never touched.
func (s *store) UpsertProfiles(ctx context.Context, profiles []Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertAll(ctx, `
		INSERT INTO profiles (id, full_name, slack_user_id) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			full_name = excluded.full_name,
			slack_user_id = COALESCE(excluded.slack_user_id, profiles.slack_user_id);
	`, len(profiles), func(i int) []any {
		p := profiles[i]
		return []any{p.ID, p.FullName, p.SlackUserID}
	})
}

func (s *store) GetProfiles(ctx context.Context, ids []string) ([]Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := fmt.Sprintf(`
		SELECT id, full_name, slack_user_id, current_rating, matches_played, rating_status
		FROM profiles WHERE id IN (%s)
	`, placeholders(len(ids)))
	rows, err := s.db.QueryContext(ctx, query, toArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *store) GetProfileBySlackUserID(ctx context.Context, slackUserID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, slack_user_id, current_rating, matches_played, rating_status
		FROM profiles WHERE slack_user_id = ?
	`, slackUserID)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func scanProfile(scanner interface{ Scan(...any) error }) (*Profile, error) {
	var (
		p       Profile
		slackID sql.NullString
		current sql.NullInt64
	)
	if err := scanner.Scan(&p.ID, &p.FullName, &slackID, &current, &p.MatchesPlayed, &p.RatingStatus); err != nil {
		return nil, err
	}
	if slackID.Valid {
		p.SlackUserID = &slackID.String
	}
	if current.Valid {
		v := int(current.Int64)
		p.CurrentRating = &v
	}
	return &p, nil
}

// insertAll runs stmt once per row inside a single transaction.
// Callers hold s.mu.
func (s *store) insertAll(ctx context.Context, stmt string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer prepared.Close()

	for i := 0; i < n; i++ {
		if _, err := prepared.ExecContext(ctx, args(i)...); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
