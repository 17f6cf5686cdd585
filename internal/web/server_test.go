package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/nflookup/internal/config"
	"github.com/JonMunkholm/nflookup/internal/core"
	"github.com/JonMunkholm/nflookup/internal/core/layouts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	table *core.Table
	err   error
	calls int
}

func (f *fakeSource) Load(context.Context) (*core.Table, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

func (f *fakeSource) Describe() string { return "file:notas.csv" }

func sampleTable() *core.Table {
	t := core.NewTable([]string{core.ColDate, core.ColTaxID, core.ColName, core.ColInvoiceNo, core.ColCarrier})
	t.Append([]string{"01/02/2024", "12.345.678/0001-99", "Nicopel", "1234", "RODONAVES"})
	t.Append([]string{"02/02/2024", "98.765.432/0001-10", "Açai do Porto", "5678", "Braspress"})
	t.Append([]string{"03/02/2024", "11.222.333/0001-44", "Mercado Central", "9012", "Jadlog"})
	return t
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			ShutdownTimeout: time.Second,
			RequestTimeout:  5 * time.Second,
		},
		Search:   config.SearchConfig{MaxQueryLength: 20},
		Security: config.SecurityConfig{EnableCSP: true},
		Logging:  config.LoggingConfig{Level: "info", Format: "text"},
	}
}

func newTestServer(t *testing.T, src core.Source, cfg *config.Config) *Server {
	t.Helper()

	layout, ok := core.Get(layouts.LocalKey)
	require.True(t, ok)

	links, err := core.NewTrackingLinks("", []string{"RODONAVES=https://rodonaves.example/rastreio"})
	require.NoError(t, err)

	s := NewServer(core.NewService(src, layout, links), cfg)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandleSearch(t *testing.T) {
	src := &fakeSource{table: sampleTable()}
	s := newTestServer(t, src, testConfig())

	rec := get(t, s, "/api/search?q=nicopel")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result core.SearchResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))

	assert.Equal(t, "nicopel", result.Query)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 3, result.Scanned)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "1234", result.Rows[0][core.ColInvoiceNo])
	assert.Equal(t, []core.TrackingLink{
		{Carrier: "RODONAVES", URL: "https://rodonaves.example/rastreio"},
		{URL: core.DefaultTrackingURL},
	}, result.Tracking)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.ID.String())
}

func TestHandleSearch_NoMatches(t *testing.T) {
	s := newTestServer(t, &fakeSource{table: sampleTable()}, testConfig())

	rec := get(t, s, "/api/search?q="+url.QueryEscape("zzz"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rows":[]`)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

func TestHandleSearch_EmptyQuery(t *testing.T) {
	src := &fakeSource{table: sampleTable()}
	s := newTestServer(t, src, testConfig())

	for _, target := range []string{"/api/search", "/api/search?q=", "/api/search?q=%20%20"} {
		rec := get(t, s, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "SRCH001", decodeError(t, rec).Code, target)
	}
	assert.Zero(t, src.calls, "blank queries must not load the source")
}

func TestHandleSearch_QueryTooLong(t *testing.T) {
	src := &fakeSource{table: sampleTable()}
	s := newTestServer(t, src, testConfig())

	rec := get(t, s, "/api/search?q="+strings.Repeat("a", 21))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "SRCH002", decodeError(t, rec).Code)
	assert.Zero(t, src.calls)
}

func TestHandleSearch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantKind   string
	}{
		{"not found", core.NewLoadError(core.KindNotFound, "notas.csv", nil), http.StatusNotFound, "SRC001", "not_found"},
		{"parse", core.NewLoadError(core.KindParse, "notas.csv", errors.New("bad quote")), http.StatusUnprocessableEntity, "SRC002", "parse"},
		{"schema", core.NewLoadError(core.KindSchema, "notas.csv", nil), http.StatusUnprocessableEntity, "SRC003", "schema"},
		{"auth", core.NewLoadError(core.KindAuth, "sheets:id/donuts", nil), http.StatusBadGateway, "SRC004", "auth"},
		{"empty", core.NewLoadError(core.KindEmpty, "sheets:id/donuts", nil), http.StatusNotFound, "SRC005", "empty"},
		{"remote", core.NewLoadError(core.KindRemote, "sheets:id/donuts", nil), http.StatusBadGateway, "SRC006", "remote"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "ERR000", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &fakeSource{err: tt.err}, testConfig())

			rec := get(t, s, "/api/search?q=nicopel")
			assert.Equal(t, tt.wantStatus, rec.Code)

			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantKind, resp.Kind)
			assert.NotEmpty(t, resp.Message)
			assert.NotContains(t, resp.Message, "bad quote", "technical detail must stay server-side")
		})
	}
}

func TestHandleSearch_ColumnMissing(t *testing.T) {
	table := core.NewTable([]string{core.ColName})
	table.Append([]string{"Nicopel"})
	s := newTestServer(t, &fakeSource{table: table}, testConfig())

	rec := get(t, s, "/api/search?q=nicopel")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "FLT001", decodeError(t, rec).Code)
}

func TestHandleSource(t *testing.T) {
	s := newTestServer(t, &fakeSource{table: sampleTable()}, testConfig())

	rec := get(t, s, "/api/source")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SourceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "file:notas.csv", resp.Source)
	assert.Equal(t, layouts.LocalKey, resp.Layout)
	assert.Len(t, resp.Columns, 5)
	assert.Equal(t, "NF", resp.Columns[3].Header)
	assert.Contains(t, resp.SearchColumns, core.ColCarrier)
}

func TestHandleTracking(t *testing.T) {
	s := newTestServer(t, &fakeSource{}, testConfig())

	rec := get(t, s, "/api/tracking")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TrackingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, core.DefaultTrackingURL, resp.Default)
	assert.Equal(t, []core.TrackingLink{{Carrier: "RODONAVES", URL: "https://rodonaves.example/rastreio"}}, resp.Carriers)
}

func TestHealthz(t *testing.T) {
	src := &fakeSource{}
	s := newTestServer(t, src, testConfig())

	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Zero(t, src.calls)
}

func TestSecurityHeaders(t *testing.T) {
	cfg := testConfig()
	rec := get(t, newTestServer(t, &fakeSource{}, cfg), "/healthz")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	cfg = testConfig()
	cfg.Security.EnableCSP = false
	rec = get(t, newTestServer(t, &fakeSource{}, cfg), "/healthz")
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}
	s := newTestServer(t, &fakeSource{}, cfg)

	assert.Equal(t, http.StatusOK, get(t, s, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(t, s, "/healthz").Code)

	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE001", decodeError(t, rec).Code)
}

func TestRateLimiter_WindowReset(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     1,
		window:   time.Minute,
		now:      func() time.Time { return now },
	}

	assert.True(t, rl.allow("192.0.2.1"))
	assert.False(t, rl.allow("192.0.2.1"))
	assert.True(t, rl.allow("192.0.2.2"), "limits are per client")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.allow("192.0.2.1"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(core.ErrEmptyQuery))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(&core.FilterError{Column: core.ColTaxID}))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusBadGateway, statusFor(core.NewLoadError(core.KindRemote, "x", context.DeadlineExceeded)))
}
