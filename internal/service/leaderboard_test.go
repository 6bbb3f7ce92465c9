package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typerank/typerank-server/internal/domain"
	domainerrors "github.com/typerank/typerank-server/internal/errors"
	"github.com/typerank/typerank-server/internal/id"
)

type leaderboardFixture struct {
	env                 *testEnv
	alice, bob, charlie *domain.User
}

func newLeaderboardFixture(t *testing.T) *leaderboardFixture {
	t.Helper()
	env := newTestEnv(t)
	f := &leaderboardFixture{
		env:     env,
		alice:   env.createUser(t, "alice@example.com", "alice"),
		bob:     env.createUser(t, "bob@example.com", "bob"),
		charlie: env.createUser(t, "charlie@example.com", "charlie"),
	}
	quiet := env.createUser(t, "quiet@example.com", "")

	m60, m30 := env.timeMode(60), env.timeMode(30)

	env.insert(t, seedAttempt{user: f.alice, mode: m60, wpm: 80, accuracy: 99, ago: 10 * 24 * time.Hour})
	env.insert(t, seedAttempt{user: f.alice, mode: m60, wpm: 90, accuracy: 92, ago: 5 * 24 * time.Hour})
	env.insert(t, seedAttempt{user: f.bob, mode: m60, wpm: 90, accuracy: 97, ago: 2 * time.Hour})
	env.insert(t, seedAttempt{user: f.charlie, mode: m30, lang: domain.LanguageRussian, wpm: 75, accuracy: 100, ago: time.Hour})
	env.insert(t, seedAttempt{user: quiet, mode: m60, wpm: 200})
	env.insert(t, seedAttempt{guest: "guest-star", mode: m60, wpm: 250})

	return f
}

func entryNames(b *domain.Leaderboard) []string {
	names := make([]string, len(b.Leaderboard))
	for i, e := range b.Leaderboard {
		names[i] = e.Username
	}
	return names
}

func TestLeaderboard_GlobalDefaults(t *testing.T) {
	f := newLeaderboardFixture(t)

	b, err := f.env.leaderboard.Get(context.Background(), LeaderboardQuery{})
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob", "charlie"}, entryNames(b))
	assert.Equal(t, domain.Pagination{Page: 1, Limit: 10, Total: 3, TotalPages: 1}, b.Pagination)
	assert.Equal(t, domain.LeaderboardContext{
		Type:   domain.LeaderboardGlobal,
		Period: domain.PeriodAll,
		Metric: domain.MetricWPM,
	}, b.Context)

	first := b.Leaderboard[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, 90.0, first.Value)
	assert.Equal(t, 2, first.Attempts)
	assert.Equal(t, 92.0, first.BestAttempt.Accuracy)
	assert.True(t, first.BestAttempt.Date.Equal(testNow.Add(-5*24*time.Hour)))
}

func TestLeaderboard_AccuracyMetric(t *testing.T) {
	f := newLeaderboardFixture(t)

	b, err := f.env.leaderboard.Get(context.Background(), LeaderboardQuery{Metric: "accuracy"})
	require.NoError(t, err)

	assert.Equal(t, []string{"charlie", "alice", "bob"}, entryNames(b))
	assert.Equal(t, 99.0, b.Leaderboard[1].Value)
	assert.Equal(t, 80.0, b.Leaderboard[1].BestAttempt.WPM)
}

func TestLeaderboard_Periods(t *testing.T) {
	f := newLeaderboardFixture(t)
	ctx := context.Background()

	tests := []struct {
		period string
		want   []string
	}{
		{"daily", []string{"bob", "charlie"}},
		{"weekly", []string{"alice", "bob", "charlie"}},
		{"monthly", []string{"alice", "bob", "charlie"}},
		{"all", []string{"alice", "bob", "charlie"}},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			b, err := f.env.leaderboard.Get(ctx, LeaderboardQuery{Period: tt.period})
			require.NoError(t, err)
			assert.Equal(t, tt.want, entryNames(b))
			assert.Equal(t, len(tt.want), b.Pagination.Total)
		})
	}

	// Inside the weekly window alice only has her 90.
	b, err := f.env.leaderboard.Get(ctx, LeaderboardQuery{Period: "weekly"})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Leaderboard[0].Attempts)
}

func TestLeaderboard_Dimensions(t *testing.T) {
	f := newLeaderboardFixture(t)
	ctx := context.Background()
	m60 := f.env.timeMode(60)

	b, err := f.env.leaderboard.Get(ctx, LeaderboardQuery{Type: "gameMode", GameModeID: m60.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, entryNames(b))
	require.NotNil(t, b.Context.GameMode)
	assert.Equal(t, m60, *b.Context.GameMode)

	b, err = f.env.leaderboard.Get(ctx, LeaderboardQuery{Type: "language", Language: "ru"})
	require.NoError(t, err)
	assert.Equal(t, []string{"charlie"}, entryNames(b))
	assert.Equal(t, domain.LanguageRussian, b.Context.Language)
}

func TestLeaderboard_Paging(t *testing.T) {
	f := newLeaderboardFixture(t)

	b, err := f.env.leaderboard.Get(context.Background(), LeaderboardQuery{Page: 2, Limit: 2})
	require.NoError(t, err)

	require.Len(t, b.Leaderboard, 1)
	assert.Equal(t, 3, b.Leaderboard[0].Rank)
	assert.Equal(t, "charlie", b.Leaderboard[0].Username)
	assert.Equal(t, domain.Pagination{Page: 2, Limit: 2, Total: 3, TotalPages: 2}, b.Pagination)

	b, err = f.env.leaderboard.Get(context.Background(), LeaderboardQuery{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, b.Pagination.Limit)
}

func TestLeaderboard_Errors(t *testing.T) {
	f := newLeaderboardFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query LeaderboardQuery
		want  error
	}{
		{"game mode board without id", LeaderboardQuery{Type: "gameMode"}, domainerrors.ErrInvalidInput},
		{"language board without language", LeaderboardQuery{Type: "language"}, domainerrors.ErrInvalidInput},
		{"malformed game mode id", LeaderboardQuery{Type: "gameMode", GameModeID: "60s"}, domainerrors.ErrInvalidInput},
		{"unknown game mode", LeaderboardQuery{Type: "gameMode", GameModeID: id.MustGenerate(id.PrefixGameMode)}, domainerrors.ErrNotFound},
		{"negative page", LeaderboardQuery{Page: -1}, domainerrors.ErrInvalidInput},
		{"negative limit", LeaderboardQuery{Limit: -5}, domainerrors.ErrInvalidInput},
		{"unknown type", LeaderboardQuery{Type: "friends"}, domainerrors.ErrInvalidInput},
		{"unknown period", LeaderboardQuery{Period: "yearly"}, domainerrors.ErrInvalidInput},
		{"unknown metric", LeaderboardQuery{Metric: "errors"}, domainerrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.env.leaderboard.Get(ctx, tt.query)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLeaderboard_Empty(t *testing.T) {
	env := newTestEnv(t)

	b, err := env.leaderboard.Get(context.Background(), LeaderboardQuery{})
	require.NoError(t, err)
	assert.Empty(t, b.Leaderboard)
	assert.Equal(t, domain.Pagination{Page: 1, Limit: 10}, b.Pagination)
}

func TestLeaderboard_PageBelowOneNamesField(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.leaderboard.Get(context.Background(), LeaderboardQuery{Page: -1})
	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, map[string]string{"page": "must be greater than or equal to 1"}, derr.Details)
}
