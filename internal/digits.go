package internal

import "strings"

// bengaliDigits maps the ten Bengali decimal glyphs to their ASCII
// equivalents. Numbers pasted from Bengali-language sources routinely carry
// these glyphs instead of 0-9.
var bengaliDigits = strings.NewReplacer(
	"০", "0", "১", "1", "২", "2", "৩", "3", "৪", "4",
	"৫", "5", "৬", "6", "৭", "7", "৮", "8", "৯", "9",
)

// TranslateDigits replaces every recognized non-Latin digit glyph in s with
// its ASCII form. All other runes pass through unchanged.
func TranslateDigits(s string) string {
	return bengaliDigits.Replace(s)
}

// TranslateDigit maps a single rune to its ASCII digit if it is one of the
// recognized glyphs, else returns the rune unchanged. Never fails.
func TranslateDigit(r rune) rune {
	if r >= '০' && r <= '৯' {
		return '0' + (r - '০')
	}
	return r
}
