// Package normalize cleans user-supplied strings before they are validated or stored.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Canonical language names as stored.
const (
	English = "ENGLISH"
	Russian = "RUSSIAN"
	Uzbek   = "UZBEK"
)

// languageAliases maps codes and names (lowercase) to canonical languages.
//
//nolint:gochecknoglobals // Static lookup table for language normalization
var languageAliases = map[string]string{
	"en": English, "eng": English, "english": English,
	"ru": Russian, "rus": Russian, "russian": Russian, "русский": Russian,
	"uz": Uzbek, "uzb": Uzbek, "uzbek": Uzbek, "o'zbek": Uzbek, "oʻzbek": Uzbek,
}

var multipleSpaces = regexp.MustCompile(`\s+`)

// Language converts codes, locale tags and names to a canonical language.
// "en", "en-US", "English", "ENGLISH" -> "ENGLISH".
// Returns empty string for unrecognized values.
func Language(raw string) string {
	s := strings.ToLower(strings.TrimSpace(sanitizeString(raw)))
	if s == "" {
		return ""
	}

	if lang, ok := languageAliases[s]; ok {
		return lang
	}

	// Locale codes (e.g., "en-US", "ru_RU") use their first part.
	if idx := strings.IndexAny(s, "-_"); idx > 0 {
		if lang, ok := languageAliases[s[:idx]]; ok {
			return lang
		}
	}

	return ""
}

// Username prepares a display name for storage.
// Full-width forms fold to their narrow equivalents, compatibility characters
// are composed (NFKC), control characters are dropped and whitespace runs
// collapse to a single space. Case is preserved.
func Username(raw string) string {
	s := width.Fold.String(raw)
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = multipleSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Email lowercases and trims an email address.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(sanitizeString(raw)))
}

// Text normalizes practice text content to NFC and trims surrounding whitespace.
func Text(raw string) string {
	return strings.TrimSpace(norm.NFC.String(sanitizeString(raw)))
}

// sanitizeString removes null bytes, which break SQLite text comparisons and JSON output.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}
