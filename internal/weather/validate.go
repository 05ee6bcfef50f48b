package weather

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxCityNameLength is counted in characters (runes), not bytes.
const MaxCityNameLength = 100

// cityNamePattern is the allow-list for city input: ASCII letters, the
// punctuation found in place names, Latin letters with diacritics (Latin-1
// Supplement without × and ÷, Extended-A, Extended-B), hiragana, katakana,
// CJK unified ideographs and Hangul syllables.
//
// RE2 \s is ASCII only, so Unicode space separators (U+3000 from a Japanese
// IME, U+00A0), the line and paragraph separators and U+FEFF are listed too.
var cityNamePattern = regexp.MustCompile(
	`^[a-zA-Z\s\p{Zs}\x{2028}\x{2029}\x{FEFF},.'\-` +
		`\x{00C0}-\x{00D6}\x{00D8}-\x{00F6}\x{00F8}-\x{024F}` +
		`\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FFF}\x{AC00}-\x{D7AF}]+$`,
)

const (
	msgCityRequired = "city name required"
	msgCityTooLong  = "city name too long"
	msgCityInvalid  = "invalid characters in city name: only letters (including accented Latin), " +
		"hiragana, katakana, kanji, Hangul, spaces, commas, hyphens, periods and apostrophes are allowed"
)

// sanitizeCityName trims and NFC-composes raw so that a decomposed accent
// (e + U+0301) is checked as the single precomposed letter.
func sanitizeCityName(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

// validateCityName checks an already sanitized name and returns the
// user-facing message for the first rule it breaks, or "".
func validateCityName(city string) string {
	switch {
	case city == "":
		return msgCityRequired
	case utf8.RuneCountInString(city) > MaxCityNameLength:
		return msgCityTooLong
	case !cityNamePattern.MatchString(city):
		return msgCityInvalid
	default:
		return ""
	}
}
