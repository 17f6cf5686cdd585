// Package layouts registers all column layouts with the core registry.
// Import this package to ensure all layouts are registered.
package layouts

import "github.com/JonMunkholm/nflookup/internal/core"

// Registry keys.
const (
	LocalKey = "local"
	SheetKey = "sheet"
)

func init() {
	registerLocal()
	registerSheet()
}

// registerLocal describes the delimited export: every column required,
// every column searchable.
func registerLocal() {
	core.Register(core.Layout{
		Key:   LocalKey,
		Label: "Local file",
		Fields: []core.FieldSpec{
			{Name: core.ColDate, Header: "DATA DE ENVIO", Required: true, Searchable: true},
			{Name: core.ColTaxID, Header: "CNPJ", Required: true, Searchable: true},
			{Name: core.ColName, Header: "NOME", Required: true, Searchable: true},
			{Name: core.ColInvoiceNo, Header: "NF", Required: true, Searchable: true, Normalizer: core.StripFloatSuffix},
			{Name: core.ColCarrier, Header: "TRANSPORTADORA", Required: true, Searchable: true},
		},
	})
}

// registerSheet describes the shared spreadsheet. Columns are optional at
// load time; the search service rejects a sheet lacking a searchable column.
func registerSheet() {
	core.Register(core.Layout{
		Key:   SheetKey,
		Label: "Spreadsheet",
		Fields: []core.FieldSpec{
			{Name: core.ColCustomer, Header: "Cliente", Searchable: true},
			{Name: core.ColTaxID, Header: "CNPJ", Searchable: true, Normalizer: core.FormatTaxID},
			{Name: core.ColInvoiceNo, Header: "N° NFE", Searchable: true},
			{Name: core.ColCarrier, Header: "Transportadora"},
		},
	})
}
