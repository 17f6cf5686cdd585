package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/nflookup/internal/core"
	"github.com/JonMunkholm/nflookup/internal/logging"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsScopes are the read-only scopes requested for the service account.
var SheetsScopes = []string{
	sheets.SpreadsheetsReadonlyScope,
	sheets.DriveReadonlyScope,
}

// valuesFetcher reads a cell range. Implemented by the Sheets API client and
// by fakes in tests.
type valuesFetcher interface {
	FetchValues(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
}

// sheetsAPI adapts *sheets.Service to valuesFetcher.
type sheetsAPI struct {
	svc *sheets.Service
}

func (a sheetsAPI) FetchValues(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := a.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// SheetsSource loads records from one tab of a Google Sheets spreadsheet.
// The first row is the header; every later row becomes a record.
type SheetsSource struct {
	SpreadsheetID string
	SheetName     string
	Layout        core.Layout

	fetcher valuesFetcher
}

// NewSheetsSource creates a SheetsSource authenticated with creds.
// Extra client options are appended after the credential options.
func NewSheetsSource(ctx context.Context, spreadsheetID, sheetName string, creds Credentials, layout core.Layout, opts ...option.ClientOption) (*SheetsSource, error) {
	desc := describeSheet(spreadsheetID, sheetName)
	if creds.Empty() {
		return nil, core.NewLoadError(core.KindAuth, desc, errors.New("no credentials configured"))
	}

	clientOpts := append([]option.ClientOption{
		option.WithCredentialsJSON(creds.JSON()),
		option.WithScopes(SheetsScopes...),
	}, opts...)

	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, core.NewLoadError(core.KindAuth, desc, fmt.Errorf("create sheets client: %w", err))
	}

	return &SheetsSource{
		SpreadsheetID: spreadsheetID,
		SheetName:     sheetName,
		Layout:        layout,
		fetcher:       sheetsAPI{svc: svc},
	}, nil
}

// Describe returns the spreadsheet ID and tab name.
func (s *SheetsSource) Describe() string {
	return describeSheet(s.SpreadsheetID, s.SheetName)
}

// Load fetches the sheet in a single request and returns a fresh table.
// There is no retry; the context bounds the round-trip.
func (s *SheetsSource) Load(ctx context.Context) (*core.Table, error) {
	start := time.Now()
	desc := s.Describe()

	values, err := s.fetcher.FetchValues(ctx, s.SpreadsheetID, quoteSheetName(s.SheetName))
	if err != nil {
		return nil, core.NewLoadError(classifyRemote(err), desc, err)
	}

	records := stringifyValues(values)
	header, rows, ok := splitHeader(records)
	if !ok {
		return nil, core.NewLoadError(core.KindEmpty, desc, nil)
	}

	if _, err := core.ValidateHeaders(header, s.Layout); err != nil {
		return nil, core.NewLoadError(core.KindSchema, desc, err)
	}

	table := core.BuildTable(header, rows, s.Layout)
	if table.Len() == 0 {
		return nil, core.NewLoadError(core.KindEmpty, desc, nil)
	}

	logging.FromContext(ctx).Debug("sheets source loaded",
		"spreadsheet", s.SpreadsheetID,
		"sheet", s.SheetName,
		"rows", table.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return table, nil
}

// classifyRemote maps an API failure to a load error kind. Rejected
// credentials are auth errors; everything else (network, permission,
// missing spreadsheet) is a remote error.
func classifyRemote(err error) core.LoadErrorKind {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return core.KindAuth
	}
	var tokenErr *oauth2.RetrieveError
	if errors.As(err, &tokenErr) {
		return core.KindAuth
	}
	return core.KindRemote
}

func stringifyValues(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		out[i] = cells
	}
	return out
}

// quoteSheetName returns an A1 range selecting the whole tab.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func describeSheet(id, sheet string) string {
	return fmt.Sprintf("sheets:%s/%s", id, sheet)
}
