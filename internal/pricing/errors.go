package pricing

import (
	"errors"
	"strings"
)

var (
	ErrEmptyFile  = errors.New("file is empty")
	ErrNoDataRows = errors.New("file must contain a header row and at least one data row")
	// ErrNoValidRows is returned when every data row was rejected.
	ErrNoValidRows = errors.New("no valid rows found in file")
)

// StructuralError reports a header that does not match the schema. The file is
// rejected as a whole and nothing is applied.
type StructuralError struct {
	Missing    []string
	Unexpected []string
	Duplicate  []string
}

func (e *StructuralError) empty() bool {
	return len(e.Missing) == 0 && len(e.Unexpected) == 0 && len(e.Duplicate) == 0
}

func (e *StructuralError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "Missing required columns: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "Unexpected columns: "+strings.Join(e.Unexpected, ", "))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "Duplicate columns: "+strings.Join(e.Duplicate, ", "))
	}
	return "Invalid file header. " + strings.Join(parts, "; ")
}

// IsStructural reports whether err rejects the whole file.
func IsStructural(err error) bool {
	var serr *StructuralError
	return errors.As(err, &serr) ||
		errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrNoDataRows) ||
		errors.Is(err, ErrNoValidRows)
}
