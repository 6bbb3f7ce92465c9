package store

import (
	"time"

	"github.com/typerank/typerank-server/internal/domain"
)

// AttemptFilter selects one user's attempts for history listings.
type AttemptFilter struct {
	UserID        string
	Language      domain.Language
	GameModeType  domain.GameModeType
	GameModeValue int // zero means any
	// From and To bound created_at inclusively. Zero values are open.
	From   time.Time
	To     time.Time
	SortBy domain.HistorySort
	Order  domain.SortOrder
}

// PersonalBestQuery asks how many of a user's attempts in the same
// (game mode, language) beat or precede-with-equal the given attempt.
type PersonalBestQuery struct {
	AttemptID  string
	UserID     string
	GameModeID string
	Language   domain.Language
	Metric     domain.Metric
	Value      float64
	CreatedAt  time.Time
}

// RankScope restricts a position count. Empty fields mean any.
type RankScope struct {
	GameModeID string
	Language   domain.Language
}

// StatsFilter selects one user's attempts for statistics.
type StatsFilter struct {
	UserID   string
	Language domain.Language // empty means all languages
	Since    time.Time       // zero means unbounded
}

// Aggregate is count/avg/max over a set of attempts. Averages are unrounded.
type Aggregate struct {
	Count       int
	AvgWPM      float64
	MaxWPM      float64
	AvgAccuracy float64
	MaxAccuracy float64
}

// ModeResult is an attempt's wpm joined with its game mode.
type ModeResult struct {
	WPM  float64
	Mode domain.GameMode
}

// ModeBest is the best wpm attempt for one (mode type, mode value, language) group.
type ModeBest struct {
	ModeType  domain.GameModeType
	ModeValue int
	Language  domain.Language
	WPM       float64
	Accuracy  float64
	CreatedAt time.Time
}

// DayAggregate groups attempts by UTC calendar date (YYYY-MM-DD).
type DayAggregate struct {
	Date        string
	Count       int
	AvgWPM      float64
	AvgAccuracy float64
}
