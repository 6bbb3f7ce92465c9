package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/store"
)

// CreateText inserts a practice text.
func (s *Store) CreateText(ctx context.Context, text *domain.Text) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO texts (id, language, content, created_at) VALUES (?, ?, ?, ?)`,
		text.ID, string(text.Language), text.Content, formatTime(time.Now()))
	if err != nil {
		return conflictError(err, "text")
	}
	return nil
}

// GetText retrieves a text by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetText(ctx context.Context, id string) (*domain.Text, error) {
	var (
		t    domain.Text
		lang string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, language, content FROM texts WHERE id = ?`, id).Scan(&t.ID, &lang, &t.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get text: %w", err)
	}
	t.Language = domain.Language(lang)
	return &t, nil
}

// ListTextIDs returns the IDs of all texts in a language, oldest first.
func (s *Store) ListTextIDs(ctx context.Context, language domain.Language) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM texts WHERE language = ? ORDER BY created_at ASC, id ASC`, string(language))
	if err != nil {
		return nil, fmt.Errorf("list texts: %w", err)
	}
	return scanAll(rows, func(sc interface{ Scan(dest ...any) error }) (string, error) {
		var id string
		err := sc.Scan(&id)
		return id, err
	})
}
