package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/typerank/typerank-server/internal/domain"
	domainerrors "github.com/typerank/typerank-server/internal/errors"
	"github.com/typerank/typerank-server/internal/id"
	"github.com/typerank/typerank-server/internal/normalize"
	"github.com/typerank/typerank-server/internal/store"
	"github.com/typerank/typerank-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()

// History paging defaults.
const (
	defaultHistoryLimit = 20
	maxPageLimit        = 100
)

// SubmitAttemptRequest is one finished typing test.
type SubmitAttemptRequest struct {
	Language     domain.Language `json:"language" validate:"required,language" doc:"Language of the typed text"`
	GameModeID   string          `json:"gameModeId" validate:"required,rid=gm" doc:"Game mode ID"`
	WPM          float64         `json:"wpm" validate:"gte=0,lte=300" doc:"Words per minute"`
	Accuracy     float64         `json:"accuracy" validate:"gte=0,lte=100" doc:"Accuracy percentage"`
	Errors       *int            `json:"errors,omitempty" validate:"omitempty,gte=0" doc:"Number of typing errors (default 0)"`
	CorrectChars int             `json:"correctChars" validate:"gte=0" doc:"Correctly typed characters"`
	TotalChars   int             `json:"totalChars" validate:"gte=1" doc:"Typed characters"`
	TimeElapsed  int             `json:"timeElapsed" validate:"gte=1" doc:"Elapsed time in seconds"`
	Username     string          `json:"username,omitempty" validate:"omitempty,min=3,max=30" doc:"Display name, required for guests"`
}

// HistoryQuery filters and pages a user's own attempts. A zero Page means
// the first page.
type HistoryQuery struct {
	Page          int    `json:"page" validate:"gte=1"`
	Limit         int    `json:"limit" validate:"gte=0"`
	Language      string `json:"language" validate:"omitempty,language"`
	GameModeType  string `json:"gameModeType" validate:"omitempty,gamemodetype"`
	GameModeValue int    `json:"gameModeValue" validate:"gte=0"`
	DateFrom      string `json:"dateFrom"`
	DateTo        string `json:"dateTo"`
	SortBy        string `json:"sortBy" validate:"omitempty,oneof=createdAt wpm accuracy"`
	SortOrder     string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// AttemptService records attempts and reads them back with their standing.
type AttemptService struct {
	store  store.Store
	bests  *PersonalBestTracker
	logger *slog.Logger
	now    func() time.Time
}

// NewAttemptService creates a new attempt service.
func NewAttemptService(store store.Store, bests *PersonalBestTracker, logger *slog.Logger) *AttemptService {
	return &AttemptService{
		store:  store,
		bests:  bests,
		logger: logger,
		now:    time.Now,
	}
}

// Submit validates and stores one attempt. userID is empty for guests.
//
// Authenticated submissions get personal best flags. Any submission with a
// display name gets its wpm leaderboard positions.
func (s *AttemptService) Submit(ctx context.Context, userID string, req SubmitAttemptRequest) (*domain.AttemptResult, error) {
	if lang, ok := domain.ParseLanguage(string(req.Language)); ok {
		req.Language = lang
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	guestName := normalize.Username(req.Username)
	if userID == "" && guestName == "" {
		return nil, domainerrors.InvalidInput("username is required for guest attempts")
	}

	mode, err := s.gameMode(ctx, req.GameModeID)
	if err != nil {
		return nil, err
	}

	username := guestName
	if userID != "" {
		user, err := s.store.GetUser(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("account no longer exists")
		}
		if err != nil {
			return nil, s.internal("load submitter", err, "user_id", userID)
		}
		username = user.Username
	}

	attemptID, err := id.Generate(id.PrefixAttempt)
	if err != nil {
		return nil, s.internal("generate attempt id", err)
	}

	a := &domain.Attempt{
		ID:           attemptID,
		UserID:       userID,
		Username:     username,
		Language:     req.Language,
		GameModeID:   mode.ID,
		WPM:          req.WPM,
		Accuracy:     req.Accuracy,
		CorrectChars: req.CorrectChars,
		TotalChars:   req.TotalChars,
		TimeElapsed:  req.TimeElapsed,
		CreatedAt:    s.now(),
	}
	if req.Errors != nil {
		a.Errors = *req.Errors
	}

	if err := s.store.CreateAttempt(ctx, a); err != nil {
		return nil, s.internal("store attempt", err, "game_mode_id", mode.ID)
	}

	result := &domain.AttemptResult{Attempt: a, GameMode: *mode}

	if userID != "" {
		if result.IsPersonalBest, err = s.bests.Flags(ctx, a); err != nil {
			return nil, err
		}
	}

	if username != "" {
		if result.LeaderboardPosition, err = s.positions(ctx, a); err != nil {
			return nil, err
		}
	}

	s.logger.Info("attempt recorded",
		"attempt_id", a.ID,
		"user_id", userID,
		"guest", a.IsGuest(),
		"game_mode", mode.ID,
		"language", a.Language,
		"wpm", a.WPM,
		"personal_best", result.IsPersonalBest.Any(),
	)

	return result, nil
}

// Get returns one attempt with its personal best flags (owned attempts) and
// leaderboard positions (owner has a public username).
func (s *AttemptService) Get(ctx context.Context, attemptID string) (*domain.AttemptResult, error) {
	if !id.Valid(id.PrefixAttempt, attemptID) {
		return nil, domainerrors.InvalidInputf("invalid attempt id %q", attemptID)
	}

	a, err := s.store.GetAttempt(ctx, attemptID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("attempt %q not found", attemptID)
	}
	if err != nil {
		return nil, s.internal("load attempt", err, "attempt_id", attemptID)
	}

	mode, err := s.store.GetGameMode(ctx, a.GameModeID)
	if err != nil {
		return nil, s.internal("load attempt game mode", err, "attempt_id", attemptID)
	}

	result := &domain.AttemptResult{Attempt: a, GameMode: *mode}
	if a.IsGuest() {
		return result, nil
	}

	if result.IsPersonalBest, err = s.bests.Flags(ctx, a); err != nil {
		return nil, err
	}

	owner, err := s.store.GetUser(ctx, a.UserID)
	if err != nil {
		return nil, s.internal("load attempt owner", err, "attempt_id", attemptID)
	}
	a.Username = owner.Username
	if owner.IsPublic() {
		if result.LeaderboardPosition, err = s.positions(ctx, a); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// History returns one page of the user's own attempts, newest first by default.
func (s *AttemptService) History(ctx context.Context, userID string, q HistoryQuery) (*domain.AttemptHistory, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if lang, ok := domain.ParseLanguage(q.Language); ok {
		q.Language = string(lang)
	}
	if err := validate.Validate(q); err != nil {
		return nil, err
	}

	filter := store.AttemptFilter{
		UserID:        userID,
		Language:      domain.Language(q.Language),
		GameModeType:  domain.GameModeType(q.GameModeType),
		GameModeValue: q.GameModeValue,
		SortBy:        domain.HistorySortCreatedAt,
		Order:         domain.SortDesc,
	}
	if q.SortBy != "" {
		filter.SortBy = domain.HistorySort(q.SortBy)
	}
	if q.SortOrder != "" {
		filter.Order = domain.SortOrder(q.SortOrder)
	}

	var err error
	if filter.From, err = parseDateBound(q.DateFrom, "dateFrom", false); err != nil {
		return nil, err
	}
	if filter.To, err = parseDateBound(q.DateTo, "dateTo", true); err != nil {
		return nil, err
	}

	page, err := pageFor(q.Page, q.Limit, defaultHistoryLimit)
	if err != nil {
		return nil, err
	}

	attempts, total, err := s.store.ListAttempts(ctx, filter, page)
	if err != nil {
		return nil, s.internal("list attempts", err, "user_id", userID)
	}

	modes, err := s.modesByID(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.HistoryItem, 0, len(attempts))
	for _, a := range attempts {
		flags, err := s.bests.Flags(ctx, a)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.HistoryItem{
			Attempt:        a,
			GameMode:       modes[a.GameModeID],
			IsPersonalBest: flags.Any(),
		})
	}

	return &domain.AttemptHistory{
		Attempts:   items,
		Pagination: domain.NewPagination(page.Number(), page.Limit, total),
	}, nil
}

// positions counts public attempts with a strictly greater wpm, globally and
// within the attempt's game mode and language.
func (s *AttemptService) positions(ctx context.Context, a *domain.Attempt) (*domain.LeaderboardPosition, error) {
	scopes := []store.RankScope{
		{},
		{GameModeID: a.GameModeID},
		{Language: a.Language},
	}

	var counts [3]int
	for i, scope := range scopes {
		n, err := s.store.CountPublicAttemptsAbove(ctx, a.WPM, scope)
		if err != nil {
			return nil, s.internal("count leaderboard position", err, "attempt_id", a.ID)
		}
		counts[i] = n + 1
	}

	return &domain.LeaderboardPosition{Global: counts[0], GameMode: counts[1], Language: counts[2]}, nil
}

// gameMode resolves a game mode ID, mapping absence to NotFound.
func (s *AttemptService) gameMode(ctx context.Context, modeID string) (*domain.GameMode, error) {
	return resolveGameMode(ctx, s.store, s.logger, modeID)
}

func (s *AttemptService) modesByID(ctx context.Context) (map[string]domain.GameMode, error) {
	modes, err := s.store.ListGameModes(ctx)
	if err != nil {
		return nil, s.internal("list game modes", err)
	}
	out := make(map[string]domain.GameMode, len(modes))
	for _, m := range modes {
		out[m.ID] = m
	}
	return out, nil
}

func (s *AttemptService) internal(op string, err error, args ...any) error {
	s.logger.Error(op+" failed", append(args, "error", err)...)
	return domainerrors.Internal(err)
}

// pageFor builds the store window for a validated page number.
func pageFor(page, limit, def int) (store.Page, error) {
	p, err := store.PageFor(page, limit, def, maxPageLimit)
	if errors.Is(err, store.ErrInvalidPage) {
		return store.Page{}, domainerrors.InvalidInputWithDetails("validation failed",
			map[string]string{"page": "must be at least 1"})
	}
	return p, err
}

// parseDateBound parses an RFC 3339 timestamp or a YYYY-MM-DD date.
// A bare date used as an upper bound covers that whole UTC day.
func parseDateBound(raw, field string, upper bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, domainerrors.InvalidInputWithDetails("validation failed",
			map[string]string{field: "must be an ISO-8601 date"})
	}
	if upper {
		return d.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return d, nil
}
