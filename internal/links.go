package internal

import (
	"fmt"
	"strings"
)

// Template placeholders recognized by CustomLink. Substitution is purely
// textual; no other placeholders exist and there is no escaping.
const (
	placeholderNumber = "{number}"
	placeholderDigits = "{digits}"
)

// Digits returns n with every non-digit rune removed. For a canonical number
// that strips exactly the leading +.
func Digits(n string) string {
	var b strings.Builder
	for _, r := range n {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TelLink returns the voice-call link for a canonical number.
func TelLink(n string) string {
	return "tel:" + n
}

// SMSLink returns the SMS link for a canonical number. A non-empty message
// becomes the body query parameter; an empty message omits the query suffix
// entirely.
func SMSLink(n, message string) string {
	link := "sms:" + n
	if message != "" {
		link += "?body=" + encodeComponent(message)
	}
	return link
}

// WhatsAppLink returns the wa.me deep link for a canonical number. The
// scheme forbids the + so only the digits are used.
func WhatsAppLink(n, message string) string {
	link := "https://wa.me/" + Digits(n)
	if message != "" {
		link += "?text=" + encodeComponent(message)
	}
	return link
}

// CustomLink expands a user-supplied template against a canonical number.
// Every occurrence of {number} and {digits} is replaced. An empty template
// yields an empty link.
func CustomLink(n, template string) string {
	if template == "" {
		return ""
	}
	out := strings.ReplaceAll(template, placeholderNumber, n)
	return strings.ReplaceAll(out, placeholderDigits, Digits(n))
}

// encodeComponent percent-encodes s for use in a URL query value. Unreserved
// bytes (RFC 3986) pass through, everything else is %XX-escaped, including
// reserved query characters. Note url.QueryEscape would emit + for spaces,
// which tel/sms/wa.me consumers do not decode.
func encodeComponent(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '_' || c == '.' || c == '~' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
