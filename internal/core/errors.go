package core

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against *LoadError and *FilterError.
var (
	ErrNotFound      = errors.New("source not found")
	ErrParse         = errors.New("source parse error")
	ErrSchema        = errors.New("missing required column")
	ErrAuth          = errors.New("invalid credentials")
	ErrEmpty         = errors.New("source has no rows")
	ErrRemote        = errors.New("remote source error")
	ErrColumnMissing = errors.New("filter column not found")

	// ErrEmptyQuery is returned by Filter when the query is blank.
	// Callers treat it as "no search performed".
	ErrEmptyQuery = errors.New("empty search query")
)

// LoadErrorKind classifies why a source failed to load.
type LoadErrorKind int

const (
	KindNotFound LoadErrorKind = iota
	KindParse
	KindSchema
	KindAuth
	KindEmpty
	KindRemote
)

func (k LoadErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindParse:
		return "parse"
	case KindSchema:
		return "schema"
	case KindAuth:
		return "auth"
	case KindEmpty:
		return "empty"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

func (k LoadErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindParse:
		return ErrParse
	case KindSchema:
		return ErrSchema
	case KindAuth:
		return ErrAuth
	case KindEmpty:
		return ErrEmpty
	default:
		return ErrRemote
	}
}

// LoadError reports a failed load. No partial table accompanies it.
type LoadError struct {
	Kind   LoadErrorKind
	Source string // Backend description: file path or spreadsheet/sheet
	Err    error
}

// NewLoadError creates a LoadError for the given kind.
func NewLoadError(kind LoadErrorKind, source string, err error) *LoadError {
	return &LoadError{Kind: kind, Source: source, Err: err}
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind.sentinel(), e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *LoadError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// FilterError reports a filter call against a table lacking a column.
type FilterError struct {
	Column string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("%s: %q", ErrColumnMissing, e.Column)
}

func (e *FilterError) Is(target error) bool {
	return target == ErrColumnMissing
}

// ErrorKind returns a short label for logging: the load kind, "column_missing",
// "empty_query", or "other".
func ErrorKind(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind.String()
	}
	switch {
	case errors.Is(err, ErrColumnMissing):
		return "column_missing"
	case errors.Is(err, ErrEmptyQuery):
		return "empty_query"
	default:
		return "other"
	}
}
