package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/typerank/typerank-server/internal/auth"
	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/id"
	"github.com/typerank/typerank-server/internal/store/sqlite"
)

// testNow is the wall clock every service in a testEnv starts at.
var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store  *sqlite.Store
	logger *slog.Logger
	clock  time.Time

	modes map[domain.GameModeType]map[int]domain.GameMode

	bests       *PersonalBestTracker
	attempts    *AttemptService
	leaderboard *LeaderboardService
	stats       *StatsService
	sessions    *SessionService
	gameModes   *GameModeService
	auth        *AuthService
	users       *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	env := &testEnv{store: st, logger: logger, clock: testNow}
	now := func() time.Time { return env.clock }

	env.gameModes = NewGameModeService(st, logger)
	_, err = env.gameModes.EnsureDefaults(context.Background())
	require.NoError(t, err)

	modes, err := st.ListGameModes(context.Background())
	require.NoError(t, err)
	env.modes = map[domain.GameModeType]map[int]domain.GameMode{
		domain.GameModeByTime: {},
		domain.GameModeByWord: {},
	}
	for _, m := range modes {
		env.modes[m.Type][m.Value] = m
	}

	env.bests = NewPersonalBestTracker(st, logger)

	env.attempts = NewAttemptService(st, env.bests, logger)
	env.attempts.now = now

	env.leaderboard = NewLeaderboardService(st, logger)
	env.leaderboard.now = now

	env.stats = NewStatsService(st, logger)
	env.stats.now = now

	env.sessions = NewSessionService(st, logger)
	env.sessions.now = now

	tokens, err := auth.NewTokenService(make([]byte, 32), time.Hour)
	require.NoError(t, err)
	env.auth = NewAuthService(st, tokens, logger)
	env.auth.hash = auth.PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}.Hash
	env.auth.now = now

	env.users = NewUserService(st, logger)
	env.users.hash = env.auth.hash
	env.users.now = now

	return env
}

func (e *testEnv) timeMode(v int) domain.GameMode { return e.modes[domain.GameModeByTime][v] }
func (e *testEnv) wordMode(v int) domain.GameMode { return e.modes[domain.GameModeByWord][v] }

func (e *testEnv) advance(d time.Duration) { e.clock = e.clock.Add(d) }

func (e *testEnv) createUser(t *testing.T, email, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           id.MustGenerate(id.PrefixUser),
		Email:        email,
		Username:     username,
		PasswordHash: "$argon2id$unused",
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

// seedAttempt is a stored attempt with explicit fields.
type seedAttempt struct {
	user     *domain.User
	guest    string
	mode     domain.GameMode
	lang     domain.Language
	wpm      float64
	accuracy float64
	ago      time.Duration
}

func (e *testEnv) insert(t *testing.T, s seedAttempt) *domain.Attempt {
	t.Helper()
	a := &domain.Attempt{
		ID:           id.MustGenerate(id.PrefixAttempt),
		Username:     s.guest,
		Language:     s.lang,
		GameModeID:   s.mode.ID,
		WPM:          s.wpm,
		Accuracy:     s.accuracy,
		CorrectChars: 100,
		TotalChars:   105,
		TimeElapsed:  30,
		CreatedAt:    e.clock.Add(-s.ago),
	}
	if a.Language == "" {
		a.Language = domain.LanguageEnglish
	}
	if a.Accuracy == 0 {
		a.Accuracy = 95
	}
	if s.user != nil {
		a.UserID = s.user.ID
		a.Username = s.user.Username
	}
	require.NoError(t, e.store.CreateAttempt(context.Background(), a))
	return a
}

func submitReq(mode domain.GameMode, wpm, accuracy float64) SubmitAttemptRequest {
	return SubmitAttemptRequest{
		Language:     domain.LanguageEnglish,
		GameModeID:   mode.ID,
		WPM:          wpm,
		Accuracy:     accuracy,
		CorrectChars: 240,
		TotalChars:   250,
		TimeElapsed:  60,
	}
}
