package domain

import "time"

// Attempt is one immutable typing-test result.
type Attempt struct {
	ID string `json:"id"`
	// UserID is empty for guest attempts.
	UserID string `json:"userId,omitempty"`
	// Username is the display name: the profile username for registered
	// users (may be empty), the supplied name for guests (never empty).
	Username     string    `json:"username,omitempty"`
	Language     Language  `json:"language"`
	GameModeID   string    `json:"gameModeId"`
	WPM          float64   `json:"wpm"`
	Accuracy     float64   `json:"accuracy"`
	Errors       int       `json:"errors"`
	CorrectChars int       `json:"correctChars"`
	TotalChars   int       `json:"totalChars"`
	TimeElapsed  int       `json:"timeElapsed"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsGuest returns true if nobody owns the attempt.
func (a *Attempt) IsGuest() bool {
	return a.UserID == ""
}

// Metric names a ranked attempt value.
type Metric string

// Ranked metrics.
const (
	MetricWPM      Metric = "wpm"
	MetricAccuracy Metric = "accuracy"
)

// Valid returns true if the metric is recognized.
func (m Metric) Valid() bool {
	return m == MetricWPM || m == MetricAccuracy
}

// Of returns the attempt's value for the metric.
func (m Metric) Of(a *Attempt) float64 {
	if m == MetricAccuracy {
		return a.Accuracy
	}
	return a.WPM
}

// PersonalBestFlags tells which metrics of an attempt are the owner's best
// for its game mode and language.
type PersonalBestFlags struct {
	WPM      bool `json:"wpm"`
	Accuracy bool `json:"accuracy"`
}

// Any returns true if either metric is a personal best.
func (f PersonalBestFlags) Any() bool {
	return f.WPM || f.Accuracy
}

// LeaderboardPosition is where an attempt's wpm would place among all
// publicly identifiable attempts.
type LeaderboardPosition struct {
	Global   int `json:"global"`
	GameMode int `json:"gameMode"`
	Language int `json:"language"`
}

// AttemptResult is an attempt decorated with its derived standing.
type AttemptResult struct {
	Attempt             *Attempt             `json:"attempt"`
	GameMode            GameMode             `json:"gameMode"`
	IsPersonalBest      PersonalBestFlags    `json:"isPersonalBest"`
	LeaderboardPosition *LeaderboardPosition `json:"leaderboardPosition,omitempty"`
}

// HistoryItem is one row of a user's attempt history.
type HistoryItem struct {
	*Attempt
	GameMode       GameMode `json:"gameMode"`
	IsPersonalBest bool     `json:"isPersonalBest"`
}

// HistorySort is the column history is ordered by.
type HistorySort string

// History sort columns.
const (
	HistorySortCreatedAt HistorySort = "createdAt"
	HistorySortWPM       HistorySort = "wpm"
	HistorySortAccuracy  HistorySort = "accuracy"
)

// Valid returns true if the sort column is recognized.
func (s HistorySort) Valid() bool {
	switch s {
	case HistorySortCreatedAt, HistorySortWPM, HistorySortAccuracy:
		return true
	default:
		return false
	}
}

// SortOrder is ascending or descending.
type SortOrder string

// Sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid returns true if the order is recognized.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// Pagination describes one page of a larger result.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes TotalPages from total and limit.
func NewPagination(page, limit, total int) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		p.TotalPages = (total + limit - 1) / limit
	}
	return p
}

// Offset returns the number of rows skipped before this page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// AttemptHistory is a page of a user's attempts.
type AttemptHistory struct {
	Attempts   []HistoryItem `json:"attempts"`
	Pagination Pagination    `json:"pagination"`
}
