package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/typerank/typerank-server/internal/auth"
	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/id"
	"github.com/typerank/typerank-server/internal/service"
	"github.com/typerank/typerank-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int               `json:"v"`
	Success bool              `json:"success"`
	Data    T                 `json:"data"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

type testServer struct {
	*Server
	api   humatest.TestAPI
	store *sqlite.Store
	modes map[domain.GameModeType]map[int]domain.GameMode
}

func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	gameModes := service.NewGameModeService(st, logger)
	_, err = gameModes.EnsureDefaults(context.Background())
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(make([]byte, 32), time.Hour)
	require.NoError(t, err)

	services := &Services{
		Attempt:     service.NewAttemptService(st, service.NewPersonalBestTracker(st, logger), logger),
		Leaderboard: service.NewLeaderboardService(st, logger),
		Stats:       service.NewStatsService(st, logger),
		Session:     service.NewSessionService(st, logger),
		GameMode:    gameModes,
		Auth:        service.NewAuthService(st, tokens, logger),
		User:        service.NewUserService(st, logger),
	}

	srv := NewServer(st, services, opts, logger)

	modes, err := st.ListGameModes(context.Background())
	require.NoError(t, err)
	byType := map[domain.GameModeType]map[int]domain.GameMode{
		domain.GameModeByTime: {},
		domain.GameModeByWord: {},
	}
	for _, m := range modes {
		byType[m.Type][m.Value] = m
	}

	return &testServer{
		Server: srv,
		api:    humatest.Wrap(t, srv.API()),
		store:  st,
		modes:  byType,
	}
}

func (ts *testServer) timeMode(v int) domain.GameMode {
	return ts.modes[domain.GameModeByTime][v]
}

func (ts *testServer) addText(t *testing.T, lang domain.Language, content string) domain.Text {
	t.Helper()
	text := domain.Text{ID: id.MustGenerate(id.PrefixText), Language: lang, Content: content}
	require.NoError(t, ts.store.CreateText(context.Background(), &text))
	return text
}

// register creates an account through the API and returns its access token.
func (ts *testServer) register(t *testing.T, email, username string) string {
	t.Helper()

	body := map[string]any{"email": email, "password": "correct horse battery"}
	if username != "" {
		body["username"] = username
	}
	resp := ts.api.Post("/api/v1/auth/register", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	env := decode[service.AuthResponse](t, resp.Body.Bytes())
	require.NotEmpty(t, env.Data.AccessToken)
	return env.Data.AccessToken
}

// promote grants the admin role to an existing account.
func (ts *testServer) promote(t *testing.T, email string) {
	t.Helper()
	user, err := ts.store.GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	user.Role = domain.RoleAdmin
	require.NoError(t, ts.store.UpdateUser(context.Background(), user))
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func attemptBody(mode domain.GameMode, wpm float64) map[string]any {
	return map[string]any{
		"language":     "ENGLISH",
		"gameModeId":   mode.ID,
		"wpm":          wpm,
		"accuracy":     96.5,
		"correctChars": 240,
		"totalChars":   250,
		"timeElapsed":  60,
	}
}

func decode[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	require.Equal(t, EnvelopeVersion, env.V)
	return env
}
