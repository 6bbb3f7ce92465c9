package sqlite

import (
	"context"
	"fmt"

	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/store"
)

func statsConditions(f store.StatsFilter) conditions {
	var c conditions
	c.add("a.user_id = ?", f.UserID)
	if f.Language != "" {
		c.add("a.language = ?", string(f.Language))
	}
	if !f.Since.IsZero() {
		c.add("a.created_at >= ?", formatTime(f.Since))
	}
	return c
}

const aggregateSelect = `COUNT(*), COALESCE(AVG(a.wpm), 0), COALESCE(MAX(a.wpm), 0),
	COALESCE(AVG(a.accuracy), 0), COALESCE(MAX(a.accuracy), 0)`

// AggregateAttempts returns count, averages and maxima over the filtered attempts.
// All values are zero when nothing matches.
func (s *Store) AggregateAttempts(ctx context.Context, f store.StatsFilter) (store.Aggregate, error) {
	c := statsConditions(f)

	var agg store.Aggregate
	err := s.db.QueryRowContext(ctx, `SELECT `+aggregateSelect+` FROM attempts a`+c.where(), c.args...).
		Scan(&agg.Count, &agg.AvgWPM, &agg.MaxWPM, &agg.AvgAccuracy, &agg.MaxAccuracy)
	if err != nil {
		return store.Aggregate{}, fmt.Errorf("aggregate attempts: %w", err)
	}
	return agg, nil
}

// ListModeResults returns the wpm and game mode of each filtered attempt, oldest first.
func (s *Store) ListModeResults(ctx context.Context, f store.StatsFilter) ([]store.ModeResult, error) {
	c := statsConditions(f)

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.wpm, g.id, g.type, g.value
		FROM attempts a JOIN game_modes g ON g.id = a.game_mode_id`+c.where()+`
		ORDER BY a.created_at ASC`, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list mode results: %w", err)
	}
	return scanAll(rows, func(sc interface{ Scan(dest ...any) error }) (store.ModeResult, error) {
		var (
			r        store.ModeResult
			modeType string
		)
		err := sc.Scan(&r.WPM, &r.Mode.ID, &modeType, &r.Mode.Value)
		r.Mode.Type = domain.GameModeType(modeType)
		return r, err
	})
}

// ListModeBests returns the highest-wpm attempt per (mode type, mode value,
// language), earliest first among equal wpm.
func (s *Store) ListModeBests(ctx context.Context, f store.StatsFilter) ([]store.ModeBest, error) {
	c := statsConditions(f)

	rows, err := s.db.QueryContext(ctx, `
		SELECT type, value, language, wpm, accuracy, created_at FROM (
			SELECT g.type, g.value, a.language, a.wpm, a.accuracy, a.created_at,
			       ROW_NUMBER() OVER (
			           PARTITION BY g.type, g.value, a.language
			           ORDER BY a.wpm DESC, a.created_at ASC, a.id ASC
			       ) AS rn
			FROM attempts a JOIN game_modes g ON g.id = a.game_mode_id`+c.where()+`
		)
		WHERE rn = 1
		ORDER BY type ASC, value ASC, language ASC`, c.args...)
	if err != nil {
		return nil, fmt.Errorf("list mode bests: %w", err)
	}
	return scanAll(rows, func(sc interface{ Scan(dest ...any) error }) (store.ModeBest, error) {
		var (
			b                  store.ModeBest
			modeType, language string
			createdAt          string
		)
		if err := sc.Scan(&modeType, &b.ModeValue, &language, &b.WPM, &b.Accuracy, &createdAt); err != nil {
			return b, err
		}
		b.ModeType = domain.GameModeType(modeType)
		b.Language = domain.Language(language)
		var err error
		b.CreatedAt, err = parseTime(createdAt)
		return b, err
	})
}

// AggregateByLanguage groups the filtered attempts by language.
func (s *Store) AggregateByLanguage(ctx context.Context, f store.StatsFilter) (map[domain.Language]store.Aggregate, error) {
	c := statsConditions(f)

	rows, err := s.db.QueryContext(ctx,
		`SELECT a.language, `+aggregateSelect+` FROM attempts a`+c.where()+` GROUP BY a.language`,
		c.args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate by language: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.Language]store.Aggregate)
	for rows.Next() {
		var (
			lang string
			agg  store.Aggregate
		)
		if err := rows.Scan(&lang, &agg.Count, &agg.AvgWPM, &agg.MaxWPM, &agg.AvgAccuracy, &agg.MaxAccuracy); err != nil {
			return nil, fmt.Errorf("scan language aggregate: %w", err)
		}
		out[domain.Language(lang)] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("aggregate by language: %w", err)
	}
	return out, nil
}

// AggregateByDay groups the filtered attempts by UTC calendar date, oldest first.
func (s *Store) AggregateByDay(ctx context.Context, f store.StatsFilter) ([]store.DayAggregate, error) {
	c := statsConditions(f)

	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(a.created_at, 1, 10) AS day, COUNT(*), AVG(a.wpm), AVG(a.accuracy)
		FROM attempts a`+c.where()+`
		GROUP BY day
		ORDER BY day ASC`, c.args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate by day: %w", err)
	}
	return scanAll(rows, func(sc interface{ Scan(dest ...any) error }) (store.DayAggregate, error) {
		var d store.DayAggregate
		err := sc.Scan(&d.Date, &d.Count, &d.AvgWPM, &d.AvgAccuracy)
		return d, err
	})
}
