package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/typerank/typerank-server/internal/domain"
	"github.com/typerank/typerank-server/internal/id"
	"github.com/typerank/typerank-server/internal/store"
)

func TestCreateAndGetAttempt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mode := mustCreateMode(t, s, domain.GameModeByTime, 60)
	user := mustCreateUser(t, s, "a@example.com", "alice")

	want := mustCreateAttempt(t, s, user, mode, 72.5, withAccuracy(97.25), withLanguage(domain.LanguageUzbek))

	got, err := s.GetAttempt(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	got.CreatedAt = want.CreatedAt
	if *got != *want {
		t.Errorf("GetAttempt:\n got %+v\nwant %+v", *got, *want)
	}

	guest := mustCreateAttempt(t, s, nil, mode, 50)
	got, err = s.GetAttempt(ctx, guest.ID)
	if err != nil {
		t.Fatalf("GetAttempt guest: %v", err)
	}
	if got.UserID != "" || got.Username != "guest" {
		t.Errorf("guest attempt: got user %q name %q", got.UserID, got.Username)
	}

	if _, err := s.GetAttempt(ctx, "att-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateAttempt_Constraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mode := mustCreateMode(t, s, domain.GameModeByTime, 60)

	valid := func() *domain.Attempt {
		return &domain.Attempt{
			ID: id.MustGenerate(id.PrefixAttempt), Username: "guest", Language: domain.LanguageEnglish,
			GameModeID: mode.ID, WPM: 40, Accuracy: 90, CorrectChars: 10, TotalChars: 12, TimeElapsed: 60,
			CreatedAt: base,
		}
	}

	tests := []struct {
		name   string
		mutate func(*domain.Attempt)
	}{
		{"guest without username", func(a *domain.Attempt) { a.Username = "" }},
		{"unknown game mode", func(a *domain.Attempt) { a.GameModeID = "gm-missing" }},
		{"wpm above range", func(a *domain.Attempt) { a.WPM = 300.5 }},
		{"zero total chars", func(a *domain.Attempt) { a.TotalChars = 0 }},
		{"unknown user", func(a *domain.Attempt) { a.UserID = "user-missing" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid()
			tt.mutate(a)
			if err := s.CreateAttempt(ctx, a); err == nil {
				t.Error("expected insert to fail")
			}
		})
	}
}

func TestListAttempts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	t30 := mustCreateMode(t, s, domain.GameModeByTime, 30)
	t60 := mustCreateMode(t, s, domain.GameModeByTime, 60)
	w25 := mustCreateMode(t, s, domain.GameModeByWord, 25)
	user := mustCreateUser(t, s, "a@example.com", "alice")
	other := mustCreateUser(t, s, "b@example.com", "bob")

	a1 := mustCreateAttempt(t, s, user, t30, 50, at(0))
	a2 := mustCreateAttempt(t, s, user, t60, 70, at(time.Hour), withLanguage(domain.LanguageRussian))
	a3 := mustCreateAttempt(t, s, user, w25, 60, at(2*time.Hour))
	a4 := mustCreateAttempt(t, s, user, t60, 65, at(3*time.Hour))
	mustCreateAttempt(t, s, other, t60, 99, at(time.Hour))

	ids := func(as []*domain.Attempt) []string {
		out := make([]string, len(as))
		for i, a := range as {
			out[i] = a.ID
		}
		return out
	}

	tests := []struct {
		name      string
		filter    store.AttemptFilter
		page      store.Page
		wantIDs   []string
		wantTotal int
	}{
		{
			name:      "default newest first",
			filter:    store.AttemptFilter{UserID: user.ID},
			page:      store.Page{Limit: 10},
			wantIDs:   []string{a4.ID, a3.ID, a2.ID, a1.ID},
			wantTotal: 4,
		},
		{
			name:      "by wpm ascending",
			filter:    store.AttemptFilter{UserID: user.ID, SortBy: domain.HistorySortWPM, Order: domain.SortAsc},
			page:      store.Page{Limit: 10},
			wantIDs:   []string{a1.ID, a3.ID, a4.ID, a2.ID},
			wantTotal: 4,
		},
		{
			name:      "second page",
			filter:    store.AttemptFilter{UserID: user.ID},
			page:      store.Page{Offset: 2, Limit: 2},
			wantIDs:   []string{a2.ID, a1.ID},
			wantTotal: 4,
		},
		{
			name:      "mode type and value",
			filter:    store.AttemptFilter{UserID: user.ID, GameModeType: domain.GameModeByTime, GameModeValue: 60},
			page:      store.Page{Limit: 10},
			wantIDs:   []string{a4.ID, a2.ID},
			wantTotal: 2,
		},
		{
			name:      "language",
			filter:    store.AttemptFilter{UserID: user.ID, Language: domain.LanguageRussian},
			page:      store.Page{Limit: 10},
			wantIDs:   []string{a2.ID},
			wantTotal: 1,
		},
		{
			name:      "date range inclusive",
			filter:    store.AttemptFilter{UserID: user.ID, From: base.Add(time.Hour), To: base.Add(2 * time.Hour)},
			page:      store.Page{Limit: 10},
			wantIDs:   []string{a3.ID, a2.ID},
			wantTotal: 2,
		},
		{
			name:      "page past the end",
			filter:    store.AttemptFilter{UserID: user.ID},
			page:      store.Page{Offset: 20, Limit: 10},
			wantIDs:   []string{},
			wantTotal: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := s.ListAttempts(ctx, tt.filter, tt.page)
			if err != nil {
				t.Fatalf("ListAttempts: %v", err)
			}
			if total != tt.wantTotal {
				t.Errorf("total: got %d, want %d", total, tt.wantTotal)
			}
			gotIDs := ids(got)
			if len(gotIDs) != len(tt.wantIDs) {
				t.Fatalf("ids: got %v, want %v", gotIDs, tt.wantIDs)
			}
			for i := range gotIDs {
				if gotIDs[i] != tt.wantIDs[i] {
					t.Errorf("ids: got %v, want %v", gotIDs, tt.wantIDs)
					break
				}
			}
		})
	}
}

func TestCountBetterAttempts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mode := mustCreateMode(t, s, domain.GameModeByTime, 60)
	otherMode := mustCreateMode(t, s, domain.GameModeByTime, 30)
	user := mustCreateUser(t, s, "a@example.com", "alice")

	first := mustCreateAttempt(t, s, user, mode, 70, at(0), withAccuracy(90))
	tie := mustCreateAttempt(t, s, user, mode, 70, at(time.Minute), withAccuracy(99))
	lower := mustCreateAttempt(t, s, user, mode, 60, at(2*time.Minute), withAccuracy(80))
	// Faster, but in another mode and another language: never compared.
	mustCreateAttempt(t, s, user, otherMode, 120, at(3*time.Minute))
	mustCreateAttempt(t, s, user, mode, 120, at(4*time.Minute), withLanguage(domain.LanguageRussian))

	query := func(a *domain.Attempt, m domain.Metric) store.PersonalBestQuery {
		return store.PersonalBestQuery{
			AttemptID: a.ID, UserID: user.ID, GameModeID: a.GameModeID, Language: a.Language,
			Metric: m, Value: m.Of(a), CreatedAt: a.CreatedAt,
		}
	}

	tests := []struct {
		name    string
		attempt *domain.Attempt
		metric  domain.Metric
		want    int
	}{
		{"first to reach the value", first, domain.MetricWPM, 0},
		{"later tie is blocked", tie, domain.MetricWPM, 1},
		{"lower value", lower, domain.MetricWPM, 2},
		{"accuracy best", tie, domain.MetricAccuracy, 0},
		{"accuracy not best", first, domain.MetricAccuracy, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.CountBetterAttempts(ctx, query(tt.attempt, tt.metric))
			if err != nil {
				t.Fatalf("CountBetterAttempts: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountPublicAttemptsAbove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	t60 := mustCreateMode(t, s, domain.GameModeByTime, 60)
	t30 := mustCreateMode(t, s, domain.GameModeByTime, 30)
	alice := mustCreateUser(t, s, "a@example.com", "alice")
	private := mustCreateUser(t, s, "p@example.com", "")

	mustCreateAttempt(t, s, alice, t60, 90)
	mustCreateAttempt(t, s, alice, t30, 95, withLanguage(domain.LanguageRussian))
	mustCreateAttempt(t, s, alice, t60, 80) // equal to the queried wpm: not above
	mustCreateAttempt(t, s, private, t60, 150)
	mustCreateAttempt(t, s, nil, t60, 200) // guest

	tests := []struct {
		name  string
		scope store.RankScope
		want  int
	}{
		{"global", store.RankScope{}, 2},
		{"game mode", store.RankScope{GameModeID: t60.ID}, 1},
		{"language", store.RankScope{Language: domain.LanguageRussian}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.CountPublicAttemptsAbove(ctx, 80, tt.scope)
			if err != nil {
				t.Fatalf("CountPublicAttemptsAbove: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
