package internal

import (
	"strings"
	"unicode"
)

// Input is the full configuration of one batch run. The output is a pure
// function of these fields; every change recomputes the batch from scratch.
type Input struct {
	Text        string  `json:"text"`
	CountryCode string  `json:"country_code"`
	Message     string  `json:"message"`
	Template    string  `json:"template"`
	Options     Options `json:"options"`
}

// Result holds the processed rows plus diagnostic counts. Rejected tokens
// and later duplicates are counted but never surfaced as errors.
type Result struct {
	Rows       []Row `json:"rows"`
	Total      int   `json:"total"`
	Rejected   int   `json:"rejected"`
	Duplicates int   `json:"duplicates"`
}

// isDelimiter matches the token separators: newline, comma, tab, semicolon,
// or any whitespace run.
func isDelimiter(r rune) bool {
	return r == ',' || r == ';' || unicode.IsSpace(r)
}

// Tokenize splits raw multi-line text into candidate tokens. Adjacent
// delimiters produce no empty tokens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, isDelimiter)
}

// Process runs the whole pipeline: tokenize, normalize, deduplicate
// preserving first-seen order, and derive links for each surviving number.
func Process(in Input) Result {
	tokens := Tokenize(in.Text)
	res := Result{Rows: []Row{}, Total: len(tokens)}

	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		num, ok := Normalize(tok, in.CountryCode, in.Options)
		if !ok {
			res.Rejected++
			continue
		}
		if _, dup := seen[num]; dup {
			res.Duplicates++
			continue
		}
		seen[num] = struct{}{}
		res.Rows = append(res.Rows, BuildRow(num, in.Message, in.Template))
	}

	return res
}

// BuildRow derives the read-only result record for one canonical number.
func BuildRow(num, message, template string) Row {
	return Row{
		Number:   num,
		Digits:   Digits(num),
		Tel:      TelLink(num),
		SMS:      SMSLink(num, message),
		WhatsApp: WhatsAppLink(num, message),
		Custom:   CustomLink(num, template),
		Region:   Region(num),
		Valid:    IsPlausible(num),
	}
}

// CopyPayload returns the newline-joined canonical numbers, the bulk
// clipboard payload.
func CopyPayload(rows []Row) string {
	numbers := make([]string, 0, len(rows))
	for _, row := range rows {
		numbers = append(numbers, row.Number)
	}
	return strings.Join(numbers, "\n")
}
