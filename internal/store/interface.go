// Package store defines the persistence interface for the TypeRank server.
//
// The store only answers filtered scans, counts and group-by aggregates.
// Personal bests and ranks are derived by services from these queries on
// every read and are never written back.
package store

import (
	"context"

	"github.com/typerank/typerank-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error
	Optimize(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error

	// Game modes
	CreateGameMode(ctx context.Context, mode *domain.GameMode) error
	GetGameMode(ctx context.Context, id string) (*domain.GameMode, error)
	FindGameMode(ctx context.Context, modeType domain.GameModeType, value int) (*domain.GameMode, error)
	ListGameModes(ctx context.Context) ([]domain.GameMode, error)

	// Texts
	CreateText(ctx context.Context, text *domain.Text) error
	GetText(ctx context.Context, id string) (*domain.Text, error)
	ListTextIDs(ctx context.Context, language domain.Language) ([]string, error)

	// Attempts
	CreateAttempt(ctx context.Context, attempt *domain.Attempt) error
	GetAttempt(ctx context.Context, id string) (*domain.Attempt, error)
	ListAttempts(ctx context.Context, filter AttemptFilter, page Page) ([]*domain.Attempt, int, error)

	// Personal bests and positions
	CountBetterAttempts(ctx context.Context, q PersonalBestQuery) (int, error)
	CountPublicAttemptsAbove(ctx context.Context, wpm float64, scope RankScope) (int, error)

	// Leaderboards
	LeaderboardBests(ctx context.Context, criteria domain.LeaderboardCriteria, page Page) ([]domain.UserBest, error)
	CountLeaderboardUsers(ctx context.Context, criteria domain.LeaderboardCriteria) (int, error)

	// Statistics
	AggregateAttempts(ctx context.Context, filter StatsFilter) (Aggregate, error)
	ListModeResults(ctx context.Context, filter StatsFilter) ([]ModeResult, error)
	ListModeBests(ctx context.Context, filter StatsFilter) ([]ModeBest, error)
	AggregateByLanguage(ctx context.Context, filter StatsFilter) (map[domain.Language]Aggregate, error)
	AggregateByDay(ctx context.Context, filter StatsFilter) ([]DayAggregate, error)
}
