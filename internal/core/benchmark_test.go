package core

import (
	"fmt"
	"testing"
)

// benchTable builds a table shaped like a year of shipping exports.
func benchTable(n int) *Table {
	table := NewTable([]string{ColDate, ColTaxID, ColName, ColInvoiceNo, ColCarrier})
	carriers := []string{"RODONAVES", "Braspress", "Jadlog", "Correios"}
	for i := 0; i < n; i++ {
		table.Append([]string{
			"01/02/2024",
			FormatTaxID(fmt.Sprintf("%014d", i)),
			fmt.Sprintf("Cliente %d Ltda", i),
			fmt.Sprintf("%d", 100000+i),
			carriers[i%len(carriers)],
		})
	}
	return table
}

// BenchmarkFilter benchmarks a search over every column of a 10k-row table.
// This runs on every request since nothing is cached.
func BenchmarkFilter(b *testing.B) {
	table := benchTable(10000)
	cols := table.Columns

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Filter(table, "cliente 99", cols); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFilter_NoMatch benchmarks the worst case: every cell is scanned.
func BenchmarkFilter_NoMatch(b *testing.B) {
	table := benchTable(10000)
	cols := table.Columns

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Filter(table, "zzzz", cols)
	}
}

func BenchmarkFormatTaxID(b *testing.B) {
	testCases := []string{
		"10815855000124",
		"10.815.855/0001-24",
		" 10,815,855/0001-24 ",
		"123",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			FormatTaxID(tc)
		}
	}
}

// BenchmarkBuildTable benchmarks converting raw rows with normalizers applied.
func BenchmarkBuildTable(b *testing.B) {
	layout := Layout{Fields: []FieldSpec{
		{Name: ColTaxID, Header: "CNPJ", Normalizer: FormatTaxID},
		{Name: ColInvoiceNo, Header: "NF", Normalizer: StripFloatSuffix},
	}}
	header := []string{"CNPJ", "NF", "NOME"}
	rows := make([][]string, 10000)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("%014d", i), fmt.Sprintf("%d.0", i), "Cliente"}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BuildTable(header, rows, layout)
	}
}
