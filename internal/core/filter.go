package core

import "strings"

// Filter returns the records of table where at least one of columns contains
// query as a case-insensitive substring. Relative row order is preserved.
//
// Every column must exist in the table, otherwise a *FilterError is returned
// before any row is examined. A blank query returns ErrEmptyQuery; callers
// treat that as "no search performed" rather than "match everything".
// A query matching nothing yields an empty table, not an error. A nil table
// is treated as one with no columns and no records.
func Filter(table *Table, query string, columns []string) (*Table, error) {
	if table == nil {
		table = &Table{}
	}
	for _, col := range columns {
		if !table.HasColumn(col) {
			return nil, &FilterError{Column: col}
		}
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, ErrEmptyQuery
	}

	out := NewTable(table.Columns)
	out.Records = []Record{}
	for _, rec := range table.Records {
		if recordMatches(rec, q, columns) {
			out.Records = append(out.Records, rec)
		}
	}
	return out, nil
}

func recordMatches(rec Record, q string, columns []string) bool {
	for _, col := range columns {
		if strings.Contains(strings.ToLower(rec[col]), q) {
			return true
		}
	}
	return false
}
