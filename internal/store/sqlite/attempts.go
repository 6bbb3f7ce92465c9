package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/store"
)

// attemptColumns is the ordered list of columns selected in attempt queries.
// Must match the scan order in scanAttempt.
const attemptColumns = `a.id, a.user_id, a.username, a.language, a.game_mode_id, a.wpm, a.accuracy,
	a.errors, a.correct_chars, a.total_chars, a.time_elapsed, a.created_at`

func scanAttempt(scanner interface{ Scan(dest ...any) error }) (*domain.Attempt, error) {
	var (
		a         domain.Attempt
		userID    sql.NullString
		username  sql.NullString
		language  string
		createdAt string
	)

	err := scanner.Scan(
		&a.ID,
		&userID,
		&username,
		&language,
		&a.GameModeID,
		&a.WPM,
		&a.Accuracy,
		&a.Errors,
		&a.CorrectChars,
		&a.TotalChars,
		&a.TimeElapsed,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.UserID = userID.String
	a.Username = username.String
	a.Language = domain.Language(language)
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// metricColumn maps a metric to its attempts column. Unknown metrics rank by wpm.
func metricColumn(m domain.Metric) string {
	if m == domain.MetricAccuracy {
		return "accuracy"
	}
	return "wpm"
}

// CreateAttempt inserts an attempt. Attempts are never updated.
func (s *Store) CreateAttempt(ctx context.Context, a *domain.Attempt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attempts (
			id, user_id, username, language, game_mode_id, wpm, accuracy,
			errors, correct_chars, total_chars, time_elapsed, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		nullString(a.UserID),
		nullString(a.Username),
		string(a.Language),
		a.GameModeID,
		a.WPM,
		a.Accuracy,
		a.Errors,
		a.CorrectChars,
		a.TotalChars,
		a.TimeElapsed,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", conflictError(err, "attempt"))
	}
	return nil
}

// GetAttempt retrieves an attempt by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetAttempt(ctx context.Context, id string) (*domain.Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+attemptColumns+` FROM attempts a WHERE a.id = ?`, id)

	a, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return a, nil
}

// ListAttempts returns one page of a user's attempts and the total matching the filter.
func (s *Store) ListAttempts(ctx context.Context, f store.AttemptFilter, page store.Page) ([]*domain.Attempt, int, error) {
	var c conditions
	c.add("a.user_id = ?", f.UserID)
	if f.Language != "" {
		c.add("a.language = ?", string(f.Language))
	}
	if f.GameModeType != "" {
		c.add("g.type = ?", string(f.GameModeType))
	}
	if f.GameModeValue > 0 {
		c.add("g.value = ?", f.GameModeValue)
	}
	if !f.From.IsZero() {
		c.add("a.created_at >= ?", formatTime(f.From))
	}
	if !f.To.IsZero() {
		c.add("a.created_at <= ?", formatTime(f.To))
	}

	from := ` FROM attempts a JOIN game_modes g ON g.id = a.game_mode_id` + c.where()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+from, c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count attempts: %w", err)
	}

	column := "a.created_at"
	switch f.SortBy {
	case domain.HistorySortWPM:
		column = "a.wpm"
	case domain.HistorySortAccuracy:
		column = "a.accuracy"
	}
	dir := "DESC"
	if f.Order == domain.SortAsc {
		dir = "ASC"
	}

	query := `SELECT ` + attemptColumns + from +
		` ORDER BY ` + column + ` ` + dir + `, a.created_at ` + dir + `, a.id ` + dir +
		` LIMIT ? OFFSET ?`
	args := append(c.args, page.Limit, page.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list attempts: %w", err)
	}
	attempts, err := scanAll(rows, scanAttempt)
	if err != nil {
		return nil, 0, fmt.Errorf("scan attempts: %w", err)
	}
	return attempts, total, nil
}

// CountBetterAttempts counts the user's other attempts in the same game mode
// and language that hold a greater value, or the same value reached earlier
// (by created_at, then id). Zero means the queried attempt is the best.
func (s *Store) CountBetterAttempts(ctx context.Context, q store.PersonalBestQuery) (int, error) {
	col := metricColumn(q.Metric)
	at := formatTime(q.CreatedAt)

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM attempts
		WHERE user_id = ? AND game_mode_id = ? AND language = ? AND id <> ?
		  AND (`+col+` > ?
		       OR (`+col+` = ? AND (created_at < ? OR (created_at = ? AND id < ?))))`,
		q.UserID, q.GameModeID, string(q.Language), q.AttemptID,
		q.Value, q.Value, at, at, q.AttemptID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count better attempts: %w", err)
	}
	return n, nil
}

// CountPublicAttemptsAbove counts attempts by users with a public username
// whose wpm is strictly greater than wpm, within scope.
func (s *Store) CountPublicAttemptsAbove(ctx context.Context, wpm float64, scope store.RankScope) (int, error) {
	var c conditions
	c.add("u.username IS NOT NULL AND u.username <> ''")
	c.add("a.wpm > ?", wpm)
	if scope.GameModeID != "" {
		c.add("a.game_mode_id = ?", scope.GameModeID)
	}
	if scope.Language != "" {
		c.add("a.language = ?", string(scope.Language))
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attempts a JOIN users u ON u.id = a.user_id`+c.where(),
		c.args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attempts above: %w", err)
	}
	return n, nil
}
