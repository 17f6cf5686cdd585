package source

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/JonMunkholm/nflookup/internal/core"
	"github.com/JonMunkholm/nflookup/internal/core/layouts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

type fakeFetcher struct {
	values    [][]interface{}
	err       error
	readRange string
	calls     int
}

func (f *fakeFetcher) FetchValues(_ context.Context, _ string, readRange string) ([][]interface{}, error) {
	f.calls++
	f.readRange = readRange
	return f.values, f.err
}

func newTestSheetsSource(t *testing.T, f *fakeFetcher) *SheetsSource {
	t.Helper()
	layout, ok := core.Get(layouts.SheetKey)
	require.True(t, ok, "sheet layout should be registered")
	return &SheetsSource{
		SpreadsheetID: "1gXMG571pgj2",
		SheetName:     "donuts",
		Layout:        layout,
		fetcher:       f,
	}
}

var sheetHeader = []interface{}{"Cliente", "CNPJ", "N° NFE", "Transportadora"}

func TestSheetsSource_Load(t *testing.T) {
	f := &fakeFetcher{values: [][]interface{}{
		sheetHeader,
		{"Nicopel", "12345678000199", "1234", "RODONAVES"},
		{"The Best Açai", "12.345.678/0001-99", float64(5678)},
	}}
	src := newTestSheetsSource(t, f)

	table, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "'donuts'", f.readRange)
	assert.Equal(t, []string{core.ColCustomer, core.ColTaxID, core.ColInvoiceNo, core.ColCarrier}, table.Columns)
	require.Equal(t, 2, table.Len())

	assert.Equal(t, "12.345.678/0001-99", table.Records[0][core.ColTaxID])
	assert.Equal(t, "12.345.678/0001-99", table.Records[1][core.ColTaxID])
	assert.Equal(t, "5678", table.Records[1][core.ColInvoiceNo])
	assert.Equal(t, "", table.Records[1][core.ColCarrier])
}

func TestSheetsSource_KeepsUnknownColumns(t *testing.T) {
	f := &fakeFetcher{values: [][]interface{}{
		{"Cliente", "CNPJ", "N° NFE", "Observação"},
		{"Nicopel", "123", "1", "urgente"},
	}}
	src := newTestSheetsSource(t, f)

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, table.HasColumn("Observação"))
	assert.Equal(t, "123", table.Records[0][core.ColTaxID])
}

func TestSheetsSource_Empty(t *testing.T) {
	tests := []struct {
		name   string
		values [][]interface{}
	}{
		{"no values", nil},
		{"header only", [][]interface{}{sheetHeader}},
		{"blank rows only", [][]interface{}{sheetHeader, {"", " "}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSheetsSource(t, &fakeFetcher{values: tt.values})

			table, err := src.Load(context.Background())
			assert.Nil(t, table)
			assert.ErrorIs(t, err, core.ErrEmpty)
		})
	}
}

func TestSheetsSource_RemoteErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, core.ErrAuth},
		{"token refused", &oauth2.RetrieveError{ErrorCode: "invalid_grant"}, core.ErrAuth},
		{"not found", &googleapi.Error{Code: http.StatusNotFound}, core.ErrRemote},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, core.ErrRemote},
		{"network", errors.New("dial tcp: connection refused"), core.ErrRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSheetsSource(t, &fakeFetcher{err: tt.err})

			_, err := src.Load(context.Background())
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSheetsSource_Describe(t *testing.T) {
	src := newTestSheetsSource(t, &fakeFetcher{})
	assert.Equal(t, "sheets:1gXMG571pgj2/donuts", src.Describe())
}

func TestQuoteSheetName(t *testing.T) {
	assert.Equal(t, "'donuts'", quoteSheetName("donuts"))
	assert.Equal(t, "'Notas 2024'", quoteSheetName("Notas 2024"))
	assert.Equal(t, "'João''s'", quoteSheetName("João's"))
}

func TestNewSheetsSource_NoCredentials(t *testing.T) {
	layout, _ := core.Get(layouts.SheetKey)

	_, err := NewSheetsSource(context.Background(), "id", "donuts", Credentials{}, layout)
	assert.ErrorIs(t, err, core.ErrAuth)
}
