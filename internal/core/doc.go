// Package core provides the lookup logic for invoice records.
//
// This package holds the domain model and the pure transforms over it,
// independent of where the records come from or how results are shown. It
// can be used by the HTTP server, the CLI, or tests without modification.
//
// # Architecture
//
//   - Table / Record: an ordered set of text rows keyed by canonical column
//     names. A Table is built fresh on every load and never mutated.
//   - Layouts: registered via [Register], each [Layout] names the columns a
//     backend must provide and how source headers map onto them.
//   - Source: the loading capability implemented by the backends in the
//     source package (local file, Google Sheets).
//   - Filter: case-insensitive substring search across a fixed column set.
//   - Service: the entry point that loads, filters and attaches tracking links.
//
// # Layout Registry
//
// Layouts are registered at init time:
//
//	core.Register(core.Layout{
//	    Key:   "local",
//	    Label: "Local file",
//	    Fields: []core.FieldSpec{
//	        {Name: core.ColTaxID, Header: "CNPJ", Required: true, Searchable: true},
//	    },
//	})
//
// # Error Handling
//
// Load failures are reported as [*LoadError] and filter failures as
// [*FilterError]; both match sentinel errors with errors.Is. Technical errors
// are mapped to user-facing messages with [MapError]:
//
//   - SRC001-SRC006: data source errors (missing file, parse, schema, auth, empty, remote)
//   - FLT001: filter column errors
//   - SRCH001: empty search query
//   - SRCH002: search query longer than the configured limit
package core
