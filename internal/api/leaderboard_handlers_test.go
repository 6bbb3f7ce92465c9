package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typerank/typerank-server/internal/domain"
)

func TestGetLeaderboard(t *testing.T) {
	ts := setupTestServer(t, Options{})
	mode := ts.timeMode(30)

	alice := ts.register(t, "alice@example.com", "alice")
	bob := ts.register(t, "bob@example.com", "bobby")
	hidden := ts.register(t, "hidden@example.com", "")

	for _, sub := range []struct {
		token string
		wpm   float64
	}{
		{alice, 70}, {alice, 90}, {bob, 80}, {hidden, 120},
	} {
		resp := ts.api.Post("/api/v1/attempts", bearer(sub.token), attemptBody(mode, sub.wpm))
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	guest := attemptBody(mode, 150)
	guest["username"] = "guest_typist"
	resp := ts.api.Post("/api/v1/attempts", guest)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/attempts/leaderboard?type=gameMode&gameModeId=" + mode.ID)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[domain.Leaderboard](t, resp.Body.Bytes())
	require.Len(t, env.Data.Leaderboard, 2)
	assert.Equal(t, "alice", env.Data.Leaderboard[0].Username)
	assert.Equal(t, 1, env.Data.Leaderboard[0].Rank)
	assert.Equal(t, 90.0, env.Data.Leaderboard[0].Value)
	assert.Equal(t, 2, env.Data.Leaderboard[0].Attempts)
	assert.Equal(t, "bobby", env.Data.Leaderboard[1].Username)
	assert.Equal(t, 2, env.Data.Leaderboard[1].Rank)
	assert.Equal(t, 2, env.Data.Pagination.Total)
	assert.Equal(t, domain.LeaderboardGameMode, env.Data.Context.Type)
	require.NotNil(t, env.Data.Context.GameMode)
	assert.Equal(t, mode.ID, env.Data.Context.GameMode.ID)
}

func TestGetLeaderboard_Defaults(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/attempts/leaderboard")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[domain.Leaderboard](t, resp.Body.Bytes())
	assert.Empty(t, env.Data.Leaderboard)
	assert.Equal(t, domain.LeaderboardGlobal, env.Data.Context.Type)
	assert.Equal(t, domain.PeriodAll, env.Data.Context.Period)
	assert.Equal(t, domain.MetricWPM, env.Data.Context.Metric)
	assert.Equal(t, 10, env.Data.Pagination.Limit)
}

func TestGetLeaderboard_GameModeScopeNeedsID(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/attempts/leaderboard?type=gameMode")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	env := decode[any](t, resp.Body.Bytes())
	assert.Equal(t, "INVALID_INPUT", env.Code)
}

func TestGetLeaderboard_UnknownMetric(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/attempts/leaderboard?metric=errors")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetLeaderboard_RejectsPageBelowOne(t *testing.T) {
	ts := setupTestServer(t, Options{})

	for _, page := range []string{"0", "-1"} {
		resp := ts.api.Get("/api/v1/attempts/leaderboard?page=" + page)
		require.Equal(t, http.StatusBadRequest, resp.Code, "page=%s: %s", page, resp.Body.String())

		env := decode[any](t, resp.Body.Bytes())
		assert.Equal(t, "INVALID_INPUT", env.Code)
		require.Contains(t, env.Details, "page")
		assert.NotContains(t, env.Details["page"], "0")
	}
}

func TestGetLeaderboard_LimitIsClamped(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/attempts/leaderboard?limit=500")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[domain.Leaderboard](t, resp.Body.Bytes())
	assert.Equal(t, 1, env.Data.Pagination.Page)
	assert.Equal(t, 100, env.Data.Pagination.Limit)
}
