package domain

import "github.com/typerank/typerank-server/internal/normalize"

// Language is the language a practice text and an attempt are typed in.
type Language string

// Supported languages.
const (
	LanguageEnglish Language = normalize.English
	LanguageRussian Language = normalize.Russian
	LanguageUzbek   Language = normalize.Uzbek
)

// Languages lists every supported language.
func Languages() []Language {
	return []Language{LanguageEnglish, LanguageRussian, LanguageUzbek}
}

// Valid returns true if the language is supported.
func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageRussian, LanguageUzbek:
		return true
	default:
		return false
	}
}

// ParseLanguage accepts canonical names as well as codes and locale tags ("en", "ru-RU").
func ParseLanguage(raw string) (Language, bool) {
	lang := Language(normalize.Language(raw))
	return lang, lang.Valid()
}
