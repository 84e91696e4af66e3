// Package export formats filtered record sets for download.
package export

import "strings"

// ToCSV renders headers and rows with RFC4180-style quoting. Every field
// is wrapped in double quotes, embedded quotes are doubled, rows are
// joined with \n.
func ToCSV(headers []string, rows [][]string) string {
	var b strings.Builder
	writeRow(&b, headers)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
}
