package domain

import "math"

// GameModeType tells how a game mode's value is interpreted.
type GameModeType string

const (
	// GameModeByTime runs for Value seconds.
	GameModeByTime GameModeType = "BY_TIME"
	// GameModeByWord ends after Value words.
	GameModeByWord GameModeType = "BY_WORD"
)

// Valid returns true if the type is recognized.
func (t GameModeType) Valid() bool {
	return t == GameModeByTime || t == GameModeByWord
}

// GameMode is an immutable practice configuration.
type GameMode struct {
	ID    string       `json:"id"`
	Type  GameModeType `json:"type"`
	Value int          `json:"value"`
}

// DefaultGameModes returns the modes every installation offers.
func DefaultGameModes() []GameMode {
	modes := make([]GameMode, 0, 11)
	for _, v := range []int{15, 30, 60, 120, 180, 300} {
		modes = append(modes, GameMode{Type: GameModeByTime, Value: v})
	}
	for _, v := range []int{10, 25, 30, 50, 100} {
		modes = append(modes, GameMode{Type: GameModeByWord, Value: v})
	}
	return modes
}

// EstimatedDuration returns the session length in seconds for timed modes.
func (m GameMode) EstimatedDuration() (int, bool) {
	if m.Type != GameModeByTime {
		return 0, false
	}
	return m.Value, true
}

// TargetWords returns the word goal for word-count modes.
func (m GameMode) TargetWords() (int, bool) {
	if m.Type != GameModeByWord {
		return 0, false
	}
	return m.Value, true
}

// Typed estimates how long and how many words one attempt at wpm took in this mode.
// Timed modes contribute their duration and the words that wpm implies.
// Word modes contribute their word count and the time that wpm implies;
// a zero wpm contributes no time.
func (m GameMode) Typed(wpm float64) (seconds, words float64) {
	switch m.Type {
	case GameModeByTime:
		return float64(m.Value), math.Round(wpm * float64(m.Value) / 60)
	case GameModeByWord:
		if wpm <= 0 {
			return 0, float64(m.Value)
		}
		return float64(m.Value) / wpm * 60, float64(m.Value)
	default:
		return 0, 0
	}
}
