package domain

import "time"

// Session is a started typing session. It is never stored.
type Session struct {
	SessionID         string    `json:"sessionId"`
	Text              Text      `json:"text"`
	GameMode          GameMode  `json:"gameMode"`
	EstimatedDuration *int      `json:"estimatedDuration,omitempty"`
	TargetWords       *int      `json:"targetWords,omitempty"`
	StartedAt         time.Time `json:"startedAt"`
}
