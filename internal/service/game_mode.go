package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/typerank/typerank-server/internal/domain"
	domainerrors "github.com/typerank/typerank-server/internal/errors"
	"github.com/typerank/typerank-server/internal/id"
	"github.com/typerank/typerank-server/internal/store"
)

// GameModeService exposes the game mode catalog.
type GameModeService struct {
	store  store.Store
	logger *slog.Logger
}

// NewGameModeService creates a new game mode service.
func NewGameModeService(store store.Store, logger *slog.Logger) *GameModeService {
	return &GameModeService{store: store, logger: logger}
}

// List returns every game mode ordered by type, then value.
func (s *GameModeService) List(ctx context.Context) ([]domain.GameMode, error) {
	modes, err := s.store.ListGameModes(ctx)
	if err != nil {
		s.logger.Error("list game modes failed", "error", err)
		return nil, domainerrors.Internal(err)
	}
	return modes, nil
}

// EnsureDefaults creates any default game mode that does not exist yet.
// It returns the number of modes created.
func (s *GameModeService) EnsureDefaults(ctx context.Context) (int, error) {
	return s.Ensure(ctx, domain.DefaultGameModes())
}

// Ensure creates the given (type, value) pairs that are missing. IDs on the
// input are ignored.
func (s *GameModeService) Ensure(ctx context.Context, modes []domain.GameMode) (int, error) {
	created := 0
	for _, m := range modes {
		if !m.Type.Valid() || m.Value <= 0 {
			return created, domainerrors.InvalidInputf("invalid game mode %s/%d", m.Type, m.Value)
		}

		_, err := s.store.FindGameMode(ctx, m.Type, m.Value)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return created, domainerrors.Internal(err)
		}

		mode := &domain.GameMode{ID: id.MustGenerate(id.PrefixGameMode), Type: m.Type, Value: m.Value}
		if err := s.store.CreateGameMode(ctx, mode); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				continue
			}
			return created, domainerrors.Internal(err)
		}
		created++
	}

	if created > 0 {
		s.logger.Info("game modes created", "count", created)
	}
	return created, nil
}

// resolveGameMode loads a game mode by ID. Malformed IDs are InvalidInput,
// unknown ones NotFound.
func resolveGameMode(ctx context.Context, st store.Store, logger *slog.Logger, modeID string) (*domain.GameMode, error) {
	if !id.Valid(id.PrefixGameMode, modeID) {
		return nil, domainerrors.InvalidInputf("invalid game mode id %q", modeID)
	}

	mode, err := st.GetGameMode(ctx, modeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("game mode %q not found", modeID)
	}
	if err != nil {
		logger.Error("load game mode failed", "game_mode_id", modeID, "error", err)
		return nil, domainerrors.Internal(err)
	}
	return mode, nil
}
