package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertEvent creates an event or refreshes its players and status.
// A completed event is never moved back to an earlier status.
func (s *store) UpsertEvent(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := e.Status
	if status == "" {
		status = EventScheduled
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, match_id, player_a_id, player_b_id, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			match_id = excluded.match_id,
			player_a_id = excluded.player_a_id,
			player_b_id = excluded.player_b_id,
			started_at = excluded.started_at,
			status = CASE WHEN events.status = 'completed' THEN events.status ELSE excluded.status END;
	`, e.ID, e.MatchID, e.PlayerAID, e.PlayerBID, status, e.StartedAt.Unix())
	return err
}

func (s *store) GetEvent(ctx context.Context, id string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		e           Event
		winnerID    sql.NullString
		startedAt   int64
		completedAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, match_id, player_a_id, player_b_id, status, winner_id, started_at, completed_at
		FROM events WHERE id = ?
	`, id).Scan(&e.ID, &e.MatchID, &e.PlayerAID, &e.PlayerBID, &e.Status, &winnerID, &startedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	e.WinnerID = winnerID.String
	e.StartedAt = time.Unix(startedAt, 0).UTC()
	if completedAt.Valid {
		t := time.Unix(completedAt.Int64, 0).UTC()
		e.CompletedAt = &t
	}
	return &e, nil
}

// CompleteEvent marks the event completed with its winner and completion time.
func (s *store) CompleteEvent(ctx context.Context, id, winnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET status = ?, winner_id = ?, completed_at = ? WHERE id = ?
	`, EventCompleted, winnerID, s.now().Unix(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}

// InsertSetScores stores the sets of an event. Re-inserting the same set
// number replaces the earlier row.
func (s *store) InsertSetScores(ctx context.Context, rows []SetScoreRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertAll(ctx, `
		INSERT INTO set_scores (id, event_id, set_number, team_a_games, team_b_games, tiebreak_a, tiebreak_b)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id, set_number) DO UPDATE SET
			team_a_games = excluded.team_a_games,
			team_b_games = excluded.team_b_games,
			tiebreak_a = excluded.tiebreak_a,
			tiebreak_b = excluded.tiebreak_b;
	`, len(rows), func(i int) []any {
		r := rows[i]
		return []any{r.ID, r.EventID, r.SetNumber, r.TeamAGames, r.TeamBGames, r.TiebreakA, r.TiebreakB}
	})
}

func (s *store) InsertMatchStats(ctx context.Context, rows []MatchStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertAll(ctx, `
		INSERT INTO match_statistics (id, event_id, player_id, sets_won, games_won, points_won, aces, winners, errors, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id, player_id) DO UPDATE SET
			sets_won = excluded.sets_won,
			games_won = excluded.games_won,
			points_won = excluded.points_won,
			aces = excluded.aces,
			winners = excluded.winners,
			errors = excluded.errors,
			duration_seconds = excluded.duration_seconds;
	`, len(rows), func(i int) []any {
		r := rows[i]
		return []any{r.ID, r.EventID, r.PlayerID, r.SetsWon, r.GamesWon, r.PointsWon, r.Aces, r.Winners, r.Errors, r.DurationSeconds}
	})
}

// IsImported reports whether a Playtomic match has already been rated.
func (s *store) IsImported(ctx context.Context, playtomicMatchID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM imported_matches WHERE playtomic_match_id = ?`, playtomicMatchID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *store) MarkImported(ctx context.Context, playtomicMatchID, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO imported_matches (playtomic_match_id, match_id, imported_at) VALUES (?, ?, ?)
		ON CONFLICT(playtomic_match_id) DO NOTHING;
	`, playtomicMatchID, matchID, s.now().Unix())
	return err
}
