package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Canonical names
		{"ENGLISH", English},
		{"RUSSIAN", Russian},
		{"UZBEK", Uzbek},
		// Codes
		{"en", English},
		{"rus", Russian},
		{"uz", Uzbek},
		// Locale codes
		{"en-US", English},
		{"ru_RU", Russian},
		// Names
		{"English", English},
		{"Русский", Russian},
		// Edge cases
		{"", ""},
		{"  en  ", English},
		{"de", ""},
		{"klingon", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Language(tt.input))
		})
	}
}

func TestUsername(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "speedy", "speedy"},
		{"trims", "  speedy  ", "speedy"},
		{"collapses whitespace", "fast \t  fingers", "fast fingers"},
		{"full width folds", "ｓｐｅｅｄｙ１", "speedy1"},
		{"keeps case", "SpeedY", "SpeedY"},
		{"drops control characters", "spe\x00edy\x07", "speedy"},
		{"composes", "école", "école"},
		{"cyrillic kept", "Быстрый", "Быстрый"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Username(tt.input))
		})
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "racer@example.com", Email("  Racer@Example.COM "))
}

func TestText(t *testing.T) {
	assert.Equal(t, "café au lait", Text("  café au lait\n"))
}
