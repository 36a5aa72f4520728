package internal

import "testing"

func TestTranslateDigits(t *testing.T) {
	got := TranslateDigits("০১৭১২৩৪৫৬৭৮")
	if got != "01712345678" {
		t.Errorf("Expected '01712345678', got '%s'", got)
	}

	// Mixed glyphs and ASCII pass through together
	got = TranslateDigits("01-৭১২ abc")
	if got != "01-712 abc" {
		t.Errorf("Expected '01-712 abc', got '%s'", got)
	}
}

func TestTranslateDigit(t *testing.T) {
	if r := TranslateDigit('৫'); r != '5' {
		t.Errorf("Expected '5', got '%c'", r)
	}
	if r := TranslateDigit('5'); r != '5' {
		t.Errorf("ASCII digit should pass through, got '%c'", r)
	}
	if r := TranslateDigit('x'); r != 'x' {
		t.Errorf("Non-digit rune should pass through, got '%c'", r)
	}
}

func TestCleanCountryCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+880", "+880"},
		{"880", "+880"},
		{" +88 0 ", "+880"},
		{"৮৮০", "+880"},
		{"", ""},
		{"abc", ""},
	}
	for _, tc := range cases {
		if got := CleanCountryCode(tc.in); got != tc.want {
			t.Errorf("CleanCountryCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeLocalFormat(t *testing.T) {
	got, ok := Normalize("01712345678", "+880", DefaultOptions())
	if !ok {
		t.Fatal("Expected token to be accepted")
	}
	if got != "+8801712345678" {
		t.Errorf("Expected '+8801712345678', got '%s'", got)
	}

	// Country code without a leading + behaves the same
	got, ok = Normalize("01712345678", "880", DefaultOptions())
	if !ok || got != "+8801712345678" {
		t.Errorf("Expected '+8801712345678', got '%s' (ok=%v)", got, ok)
	}
}

func TestNormalizeInternationalPrefix(t *testing.T) {
	got, ok := Normalize("008801712345678", "+1", DefaultOptions())
	if !ok {
		t.Fatal("Expected token to be accepted")
	}
	if got != "+8801712345678" {
		t.Errorf("Expected '+8801712345678', got '%s'", got)
	}
}

func TestNormalizeSeparatorsStripped(t *testing.T) {
	got, ok := Normalize("+880 1712-345678", "+1", DefaultOptions())
	if !ok {
		t.Fatal("Expected token to be accepted")
	}
	if got != "+8801712345678" {
		t.Errorf("Expected '+8801712345678', got '%s'", got)
	}
}

func TestNormalizeBengaliGlyphs(t *testing.T) {
	ascii, okA := Normalize("01712345678", "+880", DefaultOptions())
	glyphs, okB := Normalize("০১৭১২৩৪৫৬৭৮", "+880", DefaultOptions())
	if !okA || !okB {
		t.Fatal("Expected both tokens to be accepted")
	}
	if ascii != glyphs {
		t.Errorf("Glyph token normalized to '%s', ASCII to '%s'", glyphs, ascii)
	}
}

func TestNormalizeRepeatedPlusCollapsed(t *testing.T) {
	got, ok := Normalize("++880+1712345678", "+1", DefaultOptions())
	if !ok {
		t.Fatal("Expected token to be accepted")
	}
	if got != "+8801712345678" {
		t.Errorf("Expected '+8801712345678', got '%s'", got)
	}
}

func TestNormalizeRejections(t *testing.T) {
	cases := []struct {
		token string
		cc    string
	}{
		{"", "+880"},
		{"   ", "+880"},
		{"hello", "+880"},
		{"+123", "+880"},                  // too short
		{"+1234567890123456", "+880"},    // too long
		{"12345", ""},                    // no country code, too short
	}
	for _, tc := range cases {
		if got, ok := Normalize(tc.token, tc.cc, DefaultOptions()); ok {
			t.Errorf("Normalize(%q, %q) = %q, expected rejection", tc.token, tc.cc, got)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	tokens := []string{"01712345678", "008801712345678", "+880 1712-345678", "০১৭১২৩৪৫৬৭৮"}
	for _, token := range tokens {
		first, ok := Normalize(token, "+880", DefaultOptions())
		if !ok {
			t.Fatalf("Expected %q to be accepted", token)
		}
		// Re-normalizing the output must be a fixed point for any country code
		for _, cc := range []string{"+880", "+1", "", "junk"} {
			second, ok := Normalize(first, cc, DefaultOptions())
			if !ok {
				t.Errorf("Re-normalizing %q with cc %q was rejected", first, cc)
				continue
			}
			if second != first {
				t.Errorf("Re-normalizing %q with cc %q gave %q", first, cc, second)
			}
		}
	}
}

func TestNormalizeCustomBounds(t *testing.T) {
	opts := Options{MinDigits: 4, MaxDigits: 6}
	got, ok := Normalize("+12345", "+880", opts)
	if !ok || got != "+12345" {
		t.Errorf("Expected '+12345' under relaxed bounds, got '%s' (ok=%v)", got, ok)
	}

	if _, ok := Normalize("+1234567", "+880", opts); ok {
		t.Error("Expected rejection above MaxDigits")
	}
}

func TestNormalizeKeepTrunkZero(t *testing.T) {
	opts := DefaultOptions()
	opts.KeepTrunkZero = true
	got, ok := Normalize("01712345678", "+880", opts)
	if !ok {
		t.Fatal("Expected token to be accepted")
	}
	if got != "+88001712345678" {
		t.Errorf("Expected '+88001712345678', got '%s'", got)
	}
}
