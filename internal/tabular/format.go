package tabular

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format is a price file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const CSVContentType = "text/csv; charset=utf-8"

// ParseFormat accepts "csv" or "xlsx" in any case. An empty string means CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file format %q", s)
	}
}

// FormatForFile picks the format from a file extension.
func FormatForFile(name string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(name), "."))
}

// FormatForContentType maps a request Content-Type to a format.
func FormatForContentType(contentType string) Format {
	if strings.HasPrefix(strings.ToLower(contentType), XLSXContentType) {
		return FormatXLSX
	}
	return FormatCSV
}

func (f Format) Ext() string {
	return string(f)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return XLSXContentType
	}
	return CSVContentType
}

// Decode reads a document in the given format.
func Decode(content []byte, f Format) (Document, error) {
	if f == FormatXLSX {
		return ReadXLSX(bytes.NewReader(content))
	}
	return Parse(string(content)), nil
}

// Encode writes headers and rows in the given format.
func Encode(w io.Writer, f Format, headers []string, rows [][]string) error {
	if f == FormatXLSX {
		return WriteXLSX(w, headers, rows)
	}
	text, err := Serialize(headers, rows)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text+"\n")
	return err
}
