package sqlite

import (
	"context"
	"fmt"

	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/store"
)

// leaderboardConditions selects attempts eligible for a leaderboard:
// owned by a user with a public username, inside the window and dimension.
func leaderboardConditions(cr domain.LeaderboardCriteria) conditions {
	var c conditions
	c.add("u.username IS NOT NULL AND u.username <> ''")
	if !cr.Since.IsZero() {
		c.add("a.created_at >= ?", formatTime(cr.Since))
	}
	switch cr.Type {
	case domain.LeaderboardGameMode:
		c.add("a.game_mode_id = ?", cr.GameModeID)
	case domain.LeaderboardLanguage:
		c.add("a.language = ?", string(cr.Language))
	}
	return c
}

// LeaderboardBests groups eligible attempts by user and returns one page of
// per-user bests, ordered by best value descending. Ties go to the user who
// reached the value first, then by username and user ID. The snapshot is the
// earliest attempt holding the user's best value.
func (s *Store) LeaderboardBests(ctx context.Context, cr domain.LeaderboardCriteria, page store.Page) ([]domain.UserBest, error) {
	c := leaderboardConditions(cr)
	col := metricColumn(cr.Metric)

	query := `
		WITH ranked AS (
			SELECT a.user_id, u.username, a.` + col + ` AS value, a.wpm, a.accuracy, a.created_at,
			       ROW_NUMBER() OVER (PARTITION BY a.user_id ORDER BY a.` + col + ` DESC, a.created_at ASC, a.id ASC) AS rn,
			       COUNT(*) OVER (PARTITION BY a.user_id) AS attempts
			FROM attempts a JOIN users u ON u.id = a.user_id` + c.where() + `
		)
		SELECT user_id, username, value, attempts, wpm, accuracy, created_at
		FROM ranked
		WHERE rn = 1
		ORDER BY value DESC, created_at ASC, username ASC, user_id ASC
		LIMIT ? OFFSET ?`
	args := append(c.args, page.Limit, page.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	bests, err := scanAll(rows, func(sc interface{ Scan(dest ...any) error }) (domain.UserBest, error) {
		var (
			b         domain.UserBest
			createdAt string
		)
		if err := sc.Scan(&b.UserID, &b.Username, &b.Value, &b.Attempts, &b.Best.WPM, &b.Best.Accuracy, &createdAt); err != nil {
			return b, err
		}
		var err error
		b.Best.Date, err = parseTime(createdAt)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan leaderboard: %w", err)
	}
	return bests, nil
}

// CountLeaderboardUsers counts the distinct users LeaderboardBests ranks.
func (s *Store) CountLeaderboardUsers(ctx context.Context, cr domain.LeaderboardCriteria) (int, error) {
	c := leaderboardConditions(cr)

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT a.user_id) FROM attempts a JOIN users u ON u.id = a.user_id`+c.where(),
		c.args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count leaderboard users: %w", err)
	}
	return n, nil
}
