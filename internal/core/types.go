package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Canonical column names shared by every layout.
const (
	ColDate      = "DATE"
	ColTaxID     = "TAX_ID"
	ColName      = "NAME"
	ColCustomer  = "CUSTOMER"
	ColInvoiceNo = "INVOICE_NO"
	ColCarrier   = "CARRIER"
)

// Record is a single row of named text fields.
type Record map[string]string

// Table is an ordered sequence of records sharing one column set.
// Every record in Records has exactly the keys listed in Columns.
type Table struct {
	Columns []string
	Records []Record
}

// NewTable creates an empty table with the given columns.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row built from values in column order.
// Missing trailing values become empty strings.
func (t *Table) Append(values []string) {
	rec := make(Record, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(values) {
			rec[col] = values[i]
		} else {
			rec[col] = ""
		}
	}
	t.Records = append(t.Records, rec)
}

// Rows returns the records as slices in column order, for tabular output.
func (t *Table) Rows() [][]string {
	rows := make([][]string, len(t.Records))
	for i, rec := range t.Records {
		row := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			row[j] = rec[col]
		}
		rows[i] = row
	}
	return rows
}

// Source loads a table of records from one backend.
// Each call to Load returns a freshly built table; nothing is cached.
type Source interface {
	Load(ctx context.Context) (*Table, error)
	Describe() string
}

// FieldSpec maps one canonical column onto a header in the source document.
type FieldSpec struct {
	Name       string              // Canonical column name: "TAX_ID"
	Header     string              // Header text in the source: "CNPJ"
	Required   bool                // Load fails with a schema error when absent
	Searchable bool                // Included in the free-text search columns
	Normalizer func(string) string // Optional transformation applied after loading
}

// Layout describes the column set a backend provides.
type Layout struct {
	Key    string // Unique identifier: "local", "sheet"
	Label  string // Display name
	Fields []FieldSpec
}

// SearchColumns returns the canonical names of the searchable fields.
func (l Layout) SearchColumns() []string {
	var cols []string
	for _, f := range l.Fields {
		if f.Searchable {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// RequiredHeaders returns the source headers of all required fields.
func (l Layout) RequiredHeaders() []string {
	var headers []string
	for _, f := range l.Fields {
		if f.Required {
			headers = append(headers, f.Header)
		}
	}
	return headers
}

// TrackingLink is a static outbound link to a carrier's tracking page.
type TrackingLink struct {
	Carrier string `json:"carrier"`
	URL     string `json:"url"`
}

// SearchResult is the outcome of a single search.
type SearchResult struct {
	ID       uuid.UUID      `json:"id"`
	Query    string         `json:"query"`
	Source   string         `json:"source"`
	Columns  []string       `json:"columns"`
	Rows     []Record       `json:"rows"`
	Count    int            `json:"count"`
	Scanned  int            `json:"scanned"`
	Tracking []TrackingLink `json:"tracking"`
	Duration time.Duration  `json:"duration"`
}
