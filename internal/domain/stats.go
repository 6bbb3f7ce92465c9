package domain

import (
	"math"
	"time"
)

// StatsPeriod is the window for a user's aggregate statistics.
type StatsPeriod string

// Stats periods.
const (
	StatsPeriod7Days  StatsPeriod = "7d"
	StatsPeriod30Days StatsPeriod = "30d"
	StatsPeriod90Days StatsPeriod = "90d"
	StatsPeriodYear   StatsPeriod = "1y"
	StatsPeriodAll    StatsPeriod = "all"
)

// Valid returns true if the period is a recognized value.
func (p StatsPeriod) Valid() bool {
	switch p {
	case StatsPeriod7Days, StatsPeriod30Days, StatsPeriod90Days, StatsPeriodYear, StatsPeriodAll:
		return true
	default:
		return false
	}
}

// Cutoff returns the earliest creation time inside the window.
// The zero time means the window is unbounded.
func (p StatsPeriod) Cutoff(now time.Time) time.Time {
	switch p {
	case StatsPeriod7Days:
		return now.AddDate(0, 0, -7)
	case StatsPeriod30Days:
		return now.AddDate(0, 0, -30)
	case StatsPeriod90Days:
		return now.AddDate(0, 0, -90)
	case StatsPeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

// ProgressDays is the number of calendar days covered by the progress chart.
const ProgressDays = 30

// ProgressWindowStart returns the start of the UTC day ProgressDays-1 days before now.
func ProgressWindowStart(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(ProgressDays - 1))
}

// ModeBest is the best wpm reached in one game mode.
type ModeBest struct {
	WPM      float64   `json:"wpm"`
	Accuracy float64   `json:"accuracy"`
	Date     time.Time `json:"date"`
}

// PersonalBests holds the best attempt per mode value, split by mode type.
type PersonalBests struct {
	TimeMode map[string]ModeBest `json:"timeMode"`
	WordMode map[string]ModeBest `json:"wordMode"`
}

// LanguageStats aggregates one language's attempts.
type LanguageStats struct {
	Attempts        int     `json:"attempts"`
	AverageWPM      float64 `json:"averageWpm"`
	BestWPM         float64 `json:"bestWpm"`
	AverageAccuracy float64 `json:"averageAccuracy"`
}

// ProgressPoint aggregates one UTC calendar day.
type ProgressPoint struct {
	// Date is formatted YYYY-MM-DD.
	Date            string  `json:"date"`
	AverageWPM      float64 `json:"averageWpm"`
	AverageAccuracy float64 `json:"averageAccuracy"`
	AttemptsCount   int     `json:"attemptsCount"`
}

// TypingStats is a user's statistics response.
type TypingStats struct {
	TotalAttempts   int                        `json:"totalAttempts"`
	AverageWPM      float64                    `json:"averageWpm"`
	BestWPM         float64                    `json:"bestWpm"`
	AverageAccuracy float64                    `json:"averageAccuracy"`
	BestAccuracy    float64                    `json:"bestAccuracy"`
	TotalTimeTyped  int                        `json:"totalTimeTyped"`
	TotalWordsTyped int                        `json:"totalWordsTyped"`
	PersonalBests   PersonalBests              `json:"personalBests"`
	ByLanguage      map[Language]LanguageStats `json:"byLanguage"`
	ProgressChart   []ProgressPoint            `json:"progressChart"`
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
