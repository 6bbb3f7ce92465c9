package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/service"
)

func (s *Server) registerAttemptRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "submitAttempt",
		Method:        http.MethodPost,
		Path:          "/api/v1/attempts",
		Summary:       "Submit attempt",
		Description:   "Records a finished typing test. Guests must supply a username. Authenticated users get personal best flags.",
		Tags:          []string{"Attempts"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{}, {"bearer": {}}},
		Middlewares:   huma.Middlewares{s.submitRateLimit},
	}, s.handleSubmitAttempt)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAttempts",
		Method:      http.MethodGet,
		Path:        "/api/v1/attempts",
		Summary:     "Attempt history",
		Description: "Returns the authenticated user's attempts with filters and pagination",
		Tags:        []string{"Attempts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAttempts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAttemptStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/attempts/stats",
		Summary:     "Typing statistics",
		Description: "Returns totals, averages, personal bests, progress and per-language stats for the authenticated user",
		Tags:        []string{"Attempts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLeaderboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/attempts/leaderboard",
		Summary:     "Leaderboard",
		Description: "Ranks users by their best attempt. Only users with a public username appear.",
		Tags:        []string{"Leaderboard"},
	}, s.handleGetLeaderboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "startSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/attempts/start-session",
		Summary:     "Start typing session",
		Description: "Picks a text for the language and game mode. Sessions are not persisted.",
		Tags:        []string{"Attempts"},
	}, s.handleStartSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAttempt",
		Method:      http.MethodGet,
		Path:        "/api/v1/attempts/{id}",
		Summary:     "Get attempt",
		Description: "Returns one attempt with its game mode, personal best flags and leaderboard positions",
		Tags:        []string{"Attempts"},
	}, s.handleGetAttempt)
}

// === DTOs ===

// SubmitAttemptInput is the request for submitting an attempt.
type SubmitAttemptInput struct {
	Body service.SubmitAttemptRequest
}

// AttemptOutput wraps a decorated attempt for Huma.
type AttemptOutput struct {
	Body *domain.AttemptResult
}

// ListAttemptsInput contains history filters.
type ListAttemptsInput struct {
	Page          int    `query:"page" default:"1" minimum:"1" doc:"Page number, starting at 1"`
	Limit         int    `query:"limit" doc:"Items per page (default 20, max 100)"`
	Language      string `query:"language" doc:"Filter by language"`
	GameModeType  string `query:"gameModeType" doc:"Filter by game mode type"`
	GameModeValue int    `query:"gameModeValue" doc:"Filter by game mode value"`
	DateFrom      string `query:"dateFrom" doc:"Only attempts at or after this date (RFC 3339 or YYYY-MM-DD)"`
	DateTo        string `query:"dateTo" doc:"Only attempts at or before this date (RFC 3339 or YYYY-MM-DD)"`
	SortBy        string `query:"sortBy" enum:"createdAt,wpm,accuracy" default:"createdAt" doc:"Sort field"`
	SortOrder     string `query:"sortOrder" enum:"asc,desc" default:"desc" doc:"Sort direction"`
}

// ListAttemptsOutput wraps attempt history for Huma.
type ListAttemptsOutput struct {
	Body *domain.AttemptHistory
}

// StatsInput selects the statistics window.
type StatsInput struct {
	Period   string `query:"period" enum:"7d,30d,90d,1y,all" default:"all" doc:"Lookback window"`
	Language string `query:"language" doc:"Restrict to one language"`
}

// StatsOutput wraps typing statistics for Huma.
type StatsOutput struct {
	Body *domain.TypingStats
}

// LeaderboardInput selects one leaderboard page.
type LeaderboardInput struct {
	Type       string `query:"type" enum:"global,gameMode,language" default:"global" doc:"Leaderboard scope"`
	GameModeID string `query:"gameModeId" doc:"Game mode ID (required for gameMode scope)"`
	Language   string `query:"language" doc:"Language (required for language scope)"`
	Period     string `query:"period" enum:"daily,weekly,monthly,all" default:"all" doc:"Time window"`
	Metric     string `query:"metric" enum:"wpm,accuracy" default:"wpm" doc:"Ranking metric"`
	Page       int    `query:"page" default:"1" minimum:"1" doc:"Page number, starting at 1"`
	Limit      int    `query:"limit" doc:"Entries per page (default 10, max 100)"`
}

// LeaderboardOutput wraps a leaderboard page for Huma.
type LeaderboardOutput struct {
	Body *domain.Leaderboard
}

// StartSessionInput is the request for starting a typing session.
type StartSessionInput struct {
	Body service.StartSessionRequest
}

// SessionOutput wraps a started session for Huma.
type SessionOutput struct {
	Body *domain.Session
}

// GetAttemptInput identifies one attempt.
type GetAttemptInput struct {
	ID string `path:"id" doc:"Attempt ID"`
}

// === Handlers ===

func (s *Server) handleSubmitAttempt(ctx context.Context, input *SubmitAttemptInput) (*AttemptOutput, error) {
	result, err := s.services.Attempt.Submit(ctx, optionalUserID(ctx), input.Body)
	if err != nil {
		return nil, err
	}
	return &AttemptOutput{Body: result}, nil
}

func (s *Server) handleListAttempts(ctx context.Context, input *ListAttemptsInput) (*ListAttemptsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.services.Attempt.History(ctx, userID, service.HistoryQuery{
		Page:          input.Page,
		Limit:         input.Limit,
		Language:      input.Language,
		GameModeType:  input.GameModeType,
		GameModeValue: input.GameModeValue,
		DateFrom:      input.DateFrom,
		DateTo:        input.DateTo,
		SortBy:        input.SortBy,
		SortOrder:     input.SortOrder,
	})
	if err != nil {
		return nil, err
	}
	return &ListAttemptsOutput{Body: history}, nil
}

func (s *Server) handleGetStats(ctx context.Context, input *StatsInput) (*StatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.Get(ctx, userID, service.StatsQuery{
		Period:   input.Period,
		Language: input.Language,
	})
	if err != nil {
		return nil, err
	}
	return &StatsOutput{Body: stats}, nil
}

func (s *Server) handleGetLeaderboard(ctx context.Context, input *LeaderboardInput) (*LeaderboardOutput, error) {
	board, err := s.services.Leaderboard.Get(ctx, service.LeaderboardQuery{
		Type:       input.Type,
		GameModeID: input.GameModeID,
		Language:   input.Language,
		Period:     input.Period,
		Metric:     input.Metric,
		Page:       input.Page,
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &LeaderboardOutput{Body: board}, nil
}

func (s *Server) handleStartSession(ctx context.Context, input *StartSessionInput) (*SessionOutput, error) {
	session, err := s.services.Session.Start(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: session}, nil
}

func (s *Server) handleGetAttempt(ctx context.Context, input *GetAttemptInput) (*AttemptOutput, error) {
	result, err := s.services.Attempt.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AttemptOutput{Body: result}, nil
}
