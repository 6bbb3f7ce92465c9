package domain

import "time"

// LeaderboardType is the dimension a leaderboard is restricted to.
type LeaderboardType string

// Leaderboard dimensions.
const (
	LeaderboardGlobal   LeaderboardType = "global"
	LeaderboardGameMode LeaderboardType = "gameMode"
	LeaderboardLanguage LeaderboardType = "language"
)

// Valid returns true if the dimension is recognized.
func (t LeaderboardType) Valid() bool {
	switch t {
	case LeaderboardGlobal, LeaderboardGameMode, LeaderboardLanguage:
		return true
	default:
		return false
	}
}

// LeaderboardPeriod is the lookback window of a leaderboard.
type LeaderboardPeriod string

// Leaderboard periods.
const (
	PeriodDaily   LeaderboardPeriod = "daily"
	PeriodWeekly  LeaderboardPeriod = "weekly"
	PeriodMonthly LeaderboardPeriod = "monthly"
	PeriodAll     LeaderboardPeriod = "all"
)

// Valid returns true if the period is recognized.
func (p LeaderboardPeriod) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAll:
		return true
	default:
		return false
	}
}

// Cutoff returns the earliest creation time inside the window.
// The zero time means the window is unbounded.
func (p LeaderboardPeriod) Cutoff(now time.Time) time.Time {
	switch p {
	case PeriodDaily:
		return now.AddDate(0, 0, -1)
	case PeriodWeekly:
		return now.AddDate(0, 0, -7)
	case PeriodMonthly:
		return now.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

// LeaderboardCriteria is a resolved leaderboard filter.
type LeaderboardCriteria struct {
	Type   LeaderboardType
	Metric Metric
	// Since is inclusive. Zero means no lower bound.
	Since      time.Time
	GameModeID string
	Language   Language
}

// BestAttempt is the snapshot of the attempt a leaderboard value came from.
type BestAttempt struct {
	WPM      float64   `json:"wpm"`
	Accuracy float64   `json:"accuracy"`
	Date     time.Time `json:"date"`
}

// UserBest is one user's aggregate within a leaderboard window.
type UserBest struct {
	UserID   string
	Username string
	Value    float64
	Attempts int
	Best     BestAttempt
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank        int         `json:"rank"`
	Username    string      `json:"username"`
	Value       float64     `json:"value"`
	Attempts    int         `json:"attempts"`
	BestAttempt BestAttempt `json:"bestAttempt"`
}

// LeaderboardContext echoes the dimension a leaderboard was computed for.
type LeaderboardContext struct {
	Type     LeaderboardType   `json:"type"`
	Period   LeaderboardPeriod `json:"period"`
	Metric   Metric            `json:"metric"`
	GameMode *GameMode         `json:"gameMode,omitempty"`
	Language Language          `json:"language,omitempty"`
}

// Leaderboard is one page of ranked users.
type Leaderboard struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Pagination  Pagination         `json:"pagination"`
	Context     LeaderboardContext `json:"context"`
}
