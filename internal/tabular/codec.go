// Package tabular reads and writes the comma separated, double-quote escaped
// format used for bulk price files, plus the XLSX equivalent.
package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLineBreakInField is returned by Serialize for a field holding CR or LF.
var ErrLineBreakInField = errors.New("field contains a line break")

// Document is an ordered sequence of rows. The first row is the header.
type Document [][]string

// Header returns the first row, or nil for an empty document.
func (d Document) Header() []string {
	if len(d) == 0 {
		return nil
	}
	return d[0]
}

// Records returns the data rows after the header.
func (d Document) Records() [][]string {
	if len(d) < 2 {
		return nil
	}
	return d[1:]
}

// Parse splits text into rows. Lines are trimmed and blank lines dropped; fields are
// split on commas outside quoted spans, with "" inside a quoted span read as a
// literal quote. Parse never fails: field counts are checked by the validator.
func Parse(text string) Document {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var doc Document
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		doc = append(doc, parseLine(line))
	}
	return doc
}

// parseLine scans bytes so malformed UTF-8 reaches the validator unchanged; every
// delimiter is ASCII.
func parseLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			current.WriteByte('"')
			i++
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	return append(fields, current.String())
}

// Serialize writes the header and rows back out, one line per row. Fields holding a
// comma, a quote, or edge whitespace are quoted so that Parse returns them unchanged.
// Line breaks cannot survive the line-oriented format and are rejected.
func Serialize(headers []string, rows [][]string) (string, error) {
	var b strings.Builder
	all := make([][]string, 0, len(rows)+1)
	if headers != nil {
		all = append(all, headers)
	}
	all = append(all, rows...)

	for i, row := range all {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, field := range row {
			if strings.ContainsAny(field, "\r\n") {
				return "", fmt.Errorf("row %d, column %d: %w", i+1, j+1, ErrLineBreakInField)
			}
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteField(field, len(row)))
		}
	}
	return b.String(), nil
}

func quoteField(field string, width int) string {
	// A lone empty field would otherwise come out as a blank line and be dropped.
	needsQuotes := strings.ContainsAny(field, ",\"") ||
		strings.TrimSpace(field) != field ||
		(width == 1 && field == "")
	if !needsQuotes {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
