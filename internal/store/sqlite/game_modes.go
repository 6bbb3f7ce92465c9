package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/store"
)

func scanGameMode(scanner interface{ Scan(dest ...any) error }) (domain.GameMode, error) {
	var (
		m        domain.GameMode
		modeType string
	)
	if err := scanner.Scan(&m.ID, &modeType, &m.Value); err != nil {
		return domain.GameMode{}, err
	}
	m.Type = domain.GameModeType(modeType)
	return m, nil
}

// CreateGameMode inserts a game mode. (type, value) pairs are unique.
func (s *Store) CreateGameMode(ctx context.Context, mode *domain.GameMode) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO game_modes (id, type, value) VALUES (?, ?, ?)`,
		mode.ID, string(mode.Type), mode.Value)
	if err != nil {
		return conflictError(err, "game mode")
	}
	return nil
}

// GetGameMode retrieves a game mode by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetGameMode(ctx context.Context, id string) (*domain.GameMode, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, type, value FROM game_modes WHERE id = ?`, id)
	return s.oneGameMode(row)
}

// FindGameMode retrieves the game mode with the given type and value.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) FindGameMode(ctx context.Context, modeType domain.GameModeType, value int) (*domain.GameMode, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, value FROM game_modes WHERE type = ? AND value = ?`, string(modeType), value)
	return s.oneGameMode(row)
}

func (s *Store) oneGameMode(row *sql.Row) (*domain.GameMode, error) {
	m, err := scanGameMode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game mode: %w", err)
	}
	return &m, nil
}

// ListGameModes returns every game mode ordered by type, then value.
func (s *Store) ListGameModes(ctx context.Context) ([]domain.GameMode, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, type, value FROM game_modes ORDER BY type ASC, value ASC`)
	if err != nil {
		return nil, fmt.Errorf("list game modes: %w", err)
	}
	return scanAll(rows, scanGameMode)
}
