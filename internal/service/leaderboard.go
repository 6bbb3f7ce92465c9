package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/typerank/typerank-server/internal/domain"
	domainerrors "github.com/typerank/typerank-server/internal/errors"
	"github.com/typerank/typerank-server/internal/store"
)

const defaultLeaderboardLimit = 10

// LeaderboardQuery selects one page of a leaderboard. Empty fields take defaults:
// global, all time, wpm, page 1, 10 entries.
type LeaderboardQuery struct {
	Type       string `json:"type" validate:"omitempty,oneof=global gameMode language"`
	GameModeID string `json:"gameModeId"`
	Language   string `json:"language" validate:"omitempty,language"`
	Period     string `json:"period" validate:"omitempty,oneof=daily weekly monthly all"`
	Metric     string `json:"metric" validate:"omitempty,oneof=wpm accuracy"`
	Page       int    `json:"page" validate:"gte=1"`
	Limit      int    `json:"limit" validate:"gte=0"`
}

// LeaderboardService ranks users by their best attempt.
type LeaderboardService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewLeaderboardService creates a new leaderboard service.
func NewLeaderboardService(store store.Store, logger *slog.Logger) *LeaderboardService {
	return &LeaderboardService{store: store, logger: logger, now: time.Now}
}

// Get returns one page of ranked users.
func (s *LeaderboardService) Get(ctx context.Context, q LeaderboardQuery) (*domain.Leaderboard, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if lang, ok := domain.ParseLanguage(q.Language); ok {
		q.Language = string(lang)
	}
	if err := validate.Validate(q); err != nil {
		return nil, err
	}

	boardCtx := domain.LeaderboardContext{
		Type:   domain.LeaderboardGlobal,
		Period: domain.PeriodAll,
		Metric: domain.MetricWPM,
	}
	if q.Type != "" {
		boardCtx.Type = domain.LeaderboardType(q.Type)
	}
	if q.Period != "" {
		boardCtx.Period = domain.LeaderboardPeriod(q.Period)
	}
	if q.Metric != "" {
		boardCtx.Metric = domain.Metric(q.Metric)
	}

	criteria := domain.LeaderboardCriteria{
		Type:   boardCtx.Type,
		Metric: boardCtx.Metric,
		Since:  boardCtx.Period.Cutoff(s.now()),
	}

	switch boardCtx.Type {
	case domain.LeaderboardGameMode:
		if q.GameModeID == "" {
			return nil, domainerrors.InvalidInput("gameModeId is required for game mode leaderboards")
		}
		mode, err := resolveGameMode(ctx, s.store, s.logger, q.GameModeID)
		if err != nil {
			return nil, err
		}
		criteria.GameModeID = mode.ID
		boardCtx.GameMode = mode
	case domain.LeaderboardLanguage:
		if q.Language == "" {
			return nil, domainerrors.InvalidInput("language is required for language leaderboards")
		}
		criteria.Language = domain.Language(q.Language)
		boardCtx.Language = criteria.Language
	}

	page, err := pageFor(q.Page, q.Limit, defaultLeaderboardLimit)
	if err != nil {
		return nil, err
	}

	total, err := s.store.CountLeaderboardUsers(ctx, criteria)
	if err != nil {
		return nil, s.internal(err, criteria)
	}

	bests, err := s.store.LeaderboardBests(ctx, criteria, page)
	if err != nil {
		return nil, s.internal(err, criteria)
	}

	entries := make([]domain.LeaderboardEntry, len(bests))
	for i, b := range bests {
		entries[i] = domain.LeaderboardEntry{
			Rank:        page.Offset + i + 1,
			Username:    b.Username,
			Value:       b.Value,
			Attempts:    b.Attempts,
			BestAttempt: b.Best,
		}
	}

	return &domain.Leaderboard{
		Leaderboard: entries,
		Pagination:  domain.NewPagination(page.Number(), page.Limit, total),
		Context:     boardCtx,
	}, nil
}

func (s *LeaderboardService) internal(err error, cr domain.LeaderboardCriteria) error {
	s.logger.Error("leaderboard query failed",
		"type", cr.Type,
		"metric", cr.Metric,
		"game_mode_id", cr.GameModeID,
		"language", cr.Language,
		"error", err,
	)
	return domainerrors.Internal(err)
}
