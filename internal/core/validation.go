package core

// validation.go checks that a source's header row carries every column a
// layout requires before any record is built.

import (
	"fmt"
	"strings"
)

// MissingColumnsError lists the required layout headers absent from a source.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// ValidateHeaders validates that all required layout columns exist in headers.
// Returns the header index, or a *MissingColumnsError naming every absent column.
func ValidateHeaders(headers []string, layout Layout) (HeaderIndex, error) {
	idx := MakeHeaderIndex(headers)
	var missing []string

	for _, h := range layout.RequiredHeaders() {
		if _, ok := idx[strings.ToLower(h)]; !ok {
			missing = append(missing, h)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return idx, nil
}
