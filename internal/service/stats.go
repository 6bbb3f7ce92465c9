package service

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/typerank/typerank-server/internal/domain"
	domainerrors "github.com/typerank/typerank-server/internal/errors"
	"github.com/typerank/typerank-server/internal/store"
)

// StatsQuery selects the window and language of a user's statistics.
type StatsQuery struct {
	Period   string `json:"period" validate:"omitempty,oneof=7d 30d 90d 1y all"`
	Language string `json:"language" validate:"omitempty,language"`
}

// StatsService computes per-user typing statistics from stored attempts.
type StatsService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewStatsService creates a new stats service.
func NewStatsService(store store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{store: store, logger: logger, now: time.Now}
}

// Get computes the user's statistics.
//
// Totals, averages and byLanguage cover the requested period. Personal bests
// cover the whole history and the progress chart the last 30 UTC days; both
// honor the language filter. byLanguage ignores it.
func (s *StatsService) Get(ctx context.Context, userID string, q StatsQuery) (*domain.TypingStats, error) {
	if lang, ok := domain.ParseLanguage(q.Language); ok {
		q.Language = string(lang)
	}
	if err := validate.Validate(q); err != nil {
		return nil, err
	}

	period := domain.StatsPeriodAll
	if q.Period != "" {
		period = domain.StatsPeriod(q.Period)
	}
	lang := domain.Language(q.Language)
	now := s.now()

	windowed := store.StatsFilter{UserID: userID, Language: lang, Since: period.Cutoff(now)}

	agg, err := s.store.AggregateAttempts(ctx, windowed)
	if err != nil {
		return nil, s.internal("aggregate attempts", err, userID)
	}

	stats := &domain.TypingStats{
		TotalAttempts:   agg.Count,
		AverageWPM:      domain.Round2(agg.AvgWPM),
		BestWPM:         agg.MaxWPM,
		AverageAccuracy: domain.Round2(agg.AvgAccuracy),
		BestAccuracy:    agg.MaxAccuracy,
	}

	results, err := s.store.ListModeResults(ctx, windowed)
	if err != nil {
		return nil, s.internal("list mode results", err, userID)
	}
	var seconds, words float64
	for _, r := range results {
		sec, w := r.Mode.Typed(r.WPM)
		seconds += sec
		words += w
	}
	stats.TotalTimeTyped = int(math.Round(seconds))
	stats.TotalWordsTyped = int(math.Round(words))

	bests, err := s.store.ListModeBests(ctx, store.StatsFilter{UserID: userID, Language: lang})
	if err != nil {
		return nil, s.internal("list personal bests", err, userID)
	}
	stats.PersonalBests = projectBests(bests)

	byLang, err := s.store.AggregateByLanguage(ctx, store.StatsFilter{UserID: userID, Since: windowed.Since})
	if err != nil {
		return nil, s.internal("aggregate by language", err, userID)
	}
	stats.ByLanguage = make(map[domain.Language]domain.LanguageStats, len(byLang))
	for l, a := range byLang {
		stats.ByLanguage[l] = domain.LanguageStats{
			Attempts:        a.Count,
			AverageWPM:      domain.Round2(a.AvgWPM),
			BestWPM:         a.MaxWPM,
			AverageAccuracy: domain.Round2(a.AvgAccuracy),
		}
	}

	days, err := s.store.AggregateByDay(ctx, store.StatsFilter{
		UserID:   userID,
		Language: lang,
		Since:    domain.ProgressWindowStart(now),
	})
	if err != nil {
		return nil, s.internal("aggregate by day", err, userID)
	}
	if len(days) > domain.ProgressDays {
		days = days[len(days)-domain.ProgressDays:]
	}
	stats.ProgressChart = make([]domain.ProgressPoint, len(days))
	for i, d := range days {
		stats.ProgressChart[i] = domain.ProgressPoint{
			Date:            d.Date,
			AverageWPM:      domain.Round2(d.AvgWPM),
			AverageAccuracy: domain.Round2(d.AvgAccuracy),
			AttemptsCount:   d.Count,
		}
	}

	return stats, nil
}

// projectBests keys per-language mode bests by mode value. When two
// languages share a key the higher wpm wins, then the earlier date.
func projectBests(bests []store.ModeBest) domain.PersonalBests {
	out := domain.PersonalBests{
		TimeMode: make(map[string]domain.ModeBest),
		WordMode: make(map[string]domain.ModeBest),
	}
	for _, b := range bests {
		target := out.TimeMode
		if b.ModeType == domain.GameModeByWord {
			target = out.WordMode
		}
		key := strconv.Itoa(b.ModeValue)
		if cur, ok := target[key]; ok {
			if b.WPM < cur.WPM || (b.WPM == cur.WPM && !b.CreatedAt.Before(cur.Date)) {
				continue
			}
		}
		target[key] = domain.ModeBest{WPM: b.WPM, Accuracy: b.Accuracy, Date: b.CreatedAt}
	}
	return out
}

func (s *StatsService) internal(op string, err error, userID string) error {
	s.logger.Error("stats "+op+" failed", "user_id", userID, "error", err)
	return domainerrors.Internal(err)
}
