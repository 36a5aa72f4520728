package internal

import "strings"

// ExportFilename is the suggested file name for the CSV artifact.
const ExportFilename = "numbers.csv"

// ExportMIMEType is the content type of the CSV artifact.
const ExportMIMEType = "text/csv"

var exportHeader = []string{"number", "digits", "tel", "sms", "whatsapp", "custom"}

// BuildCSV serializes rows into a delimited-text document: a fixed header
// line followed by one line per row. Every field is double-quoted, with
// embedded quotes doubled, so any standard CSV reader round-trips the field
// values exactly. An empty custom link is emitted as an empty quoted field.
//
// encoding/csv is used on the read side (see tests); its writer quotes only
// on demand, so the always-quoted output is assembled here directly.
func BuildCSV(rows []Row) string {
	var b strings.Builder
	writeRecord(&b, exportHeader)
	for _, row := range rows {
		writeRecord(&b, []string{row.Number, row.Digits, row.Tel, row.SMS, row.WhatsApp, row.Custom})
	}
	return b.String()
}

func writeRecord(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
