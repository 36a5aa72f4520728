package internal

import "strings"

// Options control the plausibility heuristics applied during normalization.
// The digit bounds and trunk-zero stripping are heuristics, not
// numbering-plan rules, so they stay configurable per user.
type Options struct {
	MinDigits     int  `json:"min_digits"`
	MaxDigits     int  `json:"max_digits"`
	KeepTrunkZero bool `json:"keep_trunk_zero"`
}

// DefaultOptions returns the stock plausibility range: 8 to 15 digits after
// the leading +, with local trunk zeros stripped.
func DefaultOptions() Options {
	return Options{MinDigits: 8, MaxDigits: 15}
}

// withDefaults fills zero or nonsensical bounds with the stock values.
func (o Options) withDefaults() Options {
	if o.MinDigits <= 0 {
		o.MinDigits = 8
	}
	if o.MaxDigits <= 0 {
		o.MaxDigits = 15
	}
	if o.MaxDigits < o.MinDigits {
		o.MaxDigits = o.MinDigits
	}
	return o
}

// CleanCountryCode reduces a user-supplied country code to + followed by its
// digits. Digit glyphs are translated first; anything that leaves no digits
// yields "".
func CleanCountryCode(countryCode string) string {
	translated := TranslateDigits(countryCode)
	var b strings.Builder
	for _, r := range translated {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "+" + b.String()
}

// Normalize turns one raw token into canonical international form:
// + followed by countryCode and national number with no separators.
// The second return value is false when the token is rejected; rejection is
// the designed error channel, there are no errors here.
//
// This is a best-effort syntactic cleaner, not a telecom validator: it does
// not consult per-country numbering plans. See Region and IsPlausible for
// the metadata side.
func Normalize(token, countryCode string, opts Options) (string, bool) {
	opts = opts.withDefaults()

	t := strings.TrimSpace(token)
	if t == "" {
		return "", false
	}

	t = TranslateDigits(t)

	// Keep only ASCII digits and +.
	var b strings.Builder
	for _, r := range t {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	t = b.String()
	if t == "" {
		return "", false
	}

	// 00 is the international dialing prefix.
	if strings.HasPrefix(t, "00") {
		t = "+" + t[2:]
	}

	if strings.HasPrefix(t, "+") {
		// Collapse malformed repeated + signs, keeping the leading one.
		t = "+" + strings.ReplaceAll(t[1:], "+", "")
	} else {
		// Local format: prepend the default country code. The national
		// significant number conventionally drops the trunk 0.
		local := t
		if !opts.KeepTrunkZero {
			local = strings.TrimLeft(local, "0")
		}
		t = CleanCountryCode(countryCode) + local
	}

	if !isCanonical(t, opts) {
		return "", false
	}
	return t, true
}

// isCanonical reports whether s is exactly one leading + followed by a
// plausible count of ASCII digits.
func isCanonical(s string, opts Options) bool {
	if !strings.HasPrefix(s, "+") {
		return false
	}
	digits := s[1:]
	if len(digits) < opts.MinDigits || len(digits) > opts.MaxDigits {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
