package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typerank/typerank-server/internal/domain"
	domainerrors "github.com/typerank/typerank-server/internal/errors"
	"github.com/typerank/typerank-server/internal/store"
)

const day = 24 * time.Hour

func TestStats_EmptyUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ada@example.com", "ada")

	stats, err := env.stats.Get(context.Background(), user.ID, StatsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalAttempts)
	assert.Zero(t, stats.AverageWPM)
	assert.Zero(t, stats.BestAccuracy)
	assert.Zero(t, stats.TotalTimeTyped)
	assert.Empty(t, stats.PersonalBests.TimeMode)
	assert.Empty(t, stats.PersonalBests.WordMode)
	assert.Empty(t, stats.ByLanguage)
	assert.Empty(t, stats.ProgressChart)
}

func TestStats_Totals(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ada@example.com", "ada")

	// 60s at 61 wpm: 60s, 61 words. 25 words at 50 wpm: 30s, 25 words.
	// 30 words at 0 wpm: no time, 30 words.
	env.insert(t, seedAttempt{user: user, mode: env.timeMode(60), wpm: 61, accuracy: 90})
	env.insert(t, seedAttempt{user: user, mode: env.wordMode(25), wpm: 50, accuracy: 95.5})
	env.insert(t, seedAttempt{user: user, mode: env.wordMode(30), wpm: 0, accuracy: 100})

	stats, err := env.stats.Get(context.Background(), user.ID, StatsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalAttempts)
	assert.Equal(t, 37.0, stats.AverageWPM)
	assert.Equal(t, 61.0, stats.BestWPM)
	assert.Equal(t, 95.17, stats.AverageAccuracy)
	assert.Equal(t, 100.0, stats.BestAccuracy)
	assert.Equal(t, 90, stats.TotalTimeTyped)
	assert.Equal(t, 116, stats.TotalWordsTyped)
}

func TestStats_WindowAndLanguage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ada@example.com", "ada")
	other := env.createUser(t, "bob@example.com", "bob")
	m60 := env.timeMode(60)

	env.insert(t, seedAttempt{user: user, mode: m60, wpm: 100, accuracy: 99, ago: 40 * day})
	env.insert(t, seedAttempt{user: user, mode: m60, wpm: 60, accuracy: 90, ago: 3 * day})
	env.insert(t, seedAttempt{user: user, mode: m60, wpm: 70, accuracy: 94, ago: time.Hour})
	env.insert(t, seedAttempt{user: user, mode: m60, lang: domain.LanguageRussian, wpm: 40, accuracy: 80, ago: 2 * time.Hour})
	env.insert(t, seedAttempt{user: other, mode: m60, wpm: 150})

	stats, err := env.stats.Get(ctx, user.ID, StatsQuery{Period: "7d", Language: "en"})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalAttempts)
	assert.Equal(t, 65.0, stats.AverageWPM)
	assert.Equal(t, 70.0, stats.BestWPM)
	assert.Equal(t, 120, stats.TotalTimeTyped)

	// Personal bests ignore the period.
	require.Contains(t, stats.PersonalBests.TimeMode, "60")
	assert.Equal(t, 100.0, stats.PersonalBests.TimeMode["60"].WPM)
	assert.Equal(t, 99.0, stats.PersonalBests.TimeMode["60"].Accuracy)

	// byLanguage ignores the language filter but honors the period.
	assert.Equal(t, map[domain.Language]domain.LanguageStats{
		domain.LanguageEnglish: {Attempts: 2, AverageWPM: 65, BestWPM: 70, AverageAccuracy: 92},
		domain.LanguageRussian: {Attempts: 1, AverageWPM: 40, BestWPM: 40, AverageAccuracy: 80},
	}, stats.ByLanguage)

	// The progress chart covers 30 days regardless of period.
	days := make([]string, len(stats.ProgressChart))
	for i, p := range stats.ProgressChart {
		days[i] = p.Date
	}
	assert.Equal(t, []string{"2026-05-07", "2026-05-10"}, days)
	assert.Equal(t, domain.ProgressPoint{Date: "2026-05-10", AverageWPM: 70, AverageAccuracy: 94, AttemptsCount: 1}, stats.ProgressChart[1])
}

func TestStats_ProgressChartGroupsByDay(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "ada@example.com", "ada")
	m15 := env.timeMode(15)

	env.insert(t, seedAttempt{user: user, mode: m15, wpm: 50, accuracy: 90, ago: time.Hour})
	env.insert(t, seedAttempt{user: user, mode: m15, wpm: 51, accuracy: 91, ago: 2 * time.Hour})
	env.insert(t, seedAttempt{user: user, mode: m15, wpm: 52, accuracy: 95, ago: 3 * time.Hour})
	env.insert(t, seedAttempt{user: user, mode: m15, wpm: 99, ago: 29 * day})
	env.insert(t, seedAttempt{user: user, mode: m15, wpm: 99, ago: 30 * day})

	stats, err := env.stats.Get(context.Background(), user.ID, StatsQuery{})
	require.NoError(t, err)

	require.Len(t, stats.ProgressChart, 2)
	assert.Equal(t, "2026-04-11", stats.ProgressChart[0].Date)
	assert.Equal(t, domain.ProgressPoint{Date: "2026-05-10", AverageWPM: 51, AverageAccuracy: 92, AttemptsCount: 3}, stats.ProgressChart[1])
}

func TestStats_PersonalBestsAcrossLanguages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "ada@example.com", "ada")

	env.insert(t, seedAttempt{user: user, mode: env.timeMode(30), wpm: 60, ago: 2 * day})
	env.insert(t, seedAttempt{user: user, mode: env.timeMode(30), lang: domain.LanguageRussian, wpm: 70, ago: day})
	env.insert(t, seedAttempt{user: user, mode: env.wordMode(50), lang: domain.LanguageUzbek, wpm: 45, ago: 3 * day})
	env.insert(t, seedAttempt{user: user, mode: env.wordMode(50), wpm: 45, ago: day})

	stats, err := env.stats.Get(ctx, user.ID, StatsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 70.0, stats.PersonalBests.TimeMode["30"].WPM)
	require.Contains(t, stats.PersonalBests.WordMode, "50")
	assert.True(t, stats.PersonalBests.WordMode["50"].Date.Equal(testNow.Add(-3*day)), "earlier date wins a wpm tie")

	stats, err = env.stats.Get(ctx, user.ID, StatsQuery{Language: "ENGLISH"})
	require.NoError(t, err)
	assert.Equal(t, 60.0, stats.PersonalBests.TimeMode["30"].WPM)
}

func TestStats_InvalidQuery(t *testing.T) {
	env := newTestEnv(t)

	for _, q := range []StatsQuery{{Period: "2w"}, {Language: "KLINGON"}} {
		_, err := env.stats.Get(context.Background(), "user-1", q)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	}
}

func TestProjectBests_Collision(t *testing.T) {
	early := testNow.Add(-day)
	bests := projectBests([]store.ModeBest{
		{ModeType: domain.GameModeByTime, ModeValue: 60, Language: domain.LanguageEnglish, WPM: 80, Accuracy: 90, CreatedAt: testNow},
		{ModeType: domain.GameModeByTime, ModeValue: 60, Language: domain.LanguageRussian, WPM: 80, Accuracy: 99, CreatedAt: early},
		{ModeType: domain.GameModeByTime, ModeValue: 60, Language: domain.LanguageUzbek, WPM: 75, Accuracy: 100, CreatedAt: early},
	})

	assert.Equal(t, domain.ModeBest{WPM: 80, Accuracy: 99, Date: early}, bests.TimeMode["60"])
	assert.Empty(t, bests.WordMode)
}
