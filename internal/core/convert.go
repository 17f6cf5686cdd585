package core

import "strings"

// HeaderIndex maps cleaned, lowercased header names to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching; the first occurrence
// of a duplicated header wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if key == "" {
			continue
		}
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// CleanCell removes common spreadsheet export artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// IsEmptyRow reports whether every cell in row is blank.
func IsEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// BuildTable converts a header row and data rows into a Table using layout.
//
// Header cells are cleaned with CleanCell. Headers matching a layout field
// are renamed to the field's canonical name; other headers are kept as they
// appear. Blank header cells and repeated headers are dropped.
//
// Data cells are copied verbatim; only a field's Normalizer may change them.
// Fully empty rows are skipped and short rows are padded with empty strings.
func BuildTable(header []string, rows [][]string, layout Layout) *Table {
	type column struct {
		name string
		pos  int
		norm func(string) string
	}

	fieldsByHeader := make(map[string]FieldSpec, len(layout.Fields))
	for _, f := range layout.Fields {
		fieldsByHeader[strings.ToLower(f.Header)] = f
	}

	var cols []column
	seen := make(map[string]bool)
	for i, h := range header {
		name := CleanCell(h)
		if name == "" {
			continue
		}
		var norm func(string) string
		if f, ok := fieldsByHeader[strings.ToLower(name)]; ok {
			name = f.Name
			norm = f.Normalizer
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		cols = append(cols, column{name: name, pos: i, norm: norm})
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	table := NewTable(names)

	values := make([]string, len(cols))
	for _, row := range rows {
		if IsEmptyRow(row) {
			continue
		}
		for i, c := range cols {
			v := ""
			if c.pos < len(row) {
				v = row[c.pos]
			}
			if c.norm != nil {
				v = c.norm(v)
			}
			values[i] = v
		}
		table.Append(values)
	}

	return table
}
