package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/nflookup/internal/core"
	"github.com/JonMunkholm/nflookup/internal/logging"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/htmlindex"
)

// FileSource loads records from a local delimited file or .xlsx workbook.
// Delimiter and Encoding are fixed configuration, never auto-detected.
type FileSource struct {
	Path      string
	Delimiter rune   // Field separator for delimited files (default ';')
	Encoding  string // "utf-8" or any WHATWG label such as "latin1", "windows-1252"
	Sheet     string // Worksheet for .xlsx files (default: first sheet)
	Layout    core.Layout
}

// Describe returns the file path.
func (f *FileSource) Describe() string {
	return "file:" + f.Path
}

// Load reads the file and returns a freshly built table.
func (f *FileSource) Load(ctx context.Context) (*core.Table, error) {
	start := time.Now()

	file, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.NewLoadError(core.KindNotFound, f.Path, err)
		}
		return nil, core.NewLoadError(core.KindParse, f.Path, err)
	}
	defer file.Close()

	counter := core.NewCountingReader(file)

	var records [][]string
	if isWorkbook(f.Path) {
		records, err = f.readWorkbook(counter)
	} else {
		records, err = f.readDelimited(counter)
	}
	if err != nil {
		return nil, core.NewLoadError(core.KindParse, f.Path, err)
	}

	header, rows, ok := splitHeader(records)
	if !ok {
		return nil, core.NewLoadError(core.KindParse, f.Path, errors.New("no header row"))
	}

	if _, err := core.ValidateHeaders(header, f.Layout); err != nil {
		return nil, core.NewLoadError(core.KindSchema, f.Path, err)
	}

	table := core.BuildTable(header, rows, f.Layout)

	logging.FromContext(ctx).Debug("file source loaded",
		"path", f.Path,
		"bytes", counter.BytesRead,
		"rows", table.Len(),
		"columns", len(table.Columns),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return table, nil
}

func (f *FileSource) readDelimited(r io.Reader) ([][]string, error) {
	decoded, err := decodeReader(r, f.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.Comma = f.delimiter()
	cr.FieldsPerRecord = -1
	// A stray quote inside a customer name is data, not a syntax error
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	// Short rows are padded later; rows wider than the header are malformed.
	if header, _, ok := splitHeader(records); ok {
		for i, rec := range records {
			if len(rec) > len(header) {
				return nil, fmt.Errorf("invalid csv: line %d: expected %d fields, saw %d", i+1, len(header), len(rec))
			}
		}
	}

	return records, nil
}

func (f *FileSource) readWorkbook(r io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer wb.Close()

	sheet := f.Sheet
	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("invalid xlsx: workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func (f *FileSource) delimiter() rune {
	if f.Delimiter == 0 {
		return ';'
	}
	return f.Delimiter
}

// decodeReader returns a UTF-8 view of r. UTF-8 input is stripped of its BOM
// and sanitized; other encodings are resolved by WHATWG label.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	if isUTF8(encoding) {
		return core.WrapUTF8(r), nil
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("encoding error: unsupported encoding %q", encoding)
	}
	return enc.NewDecoder().Reader(r), nil
}

// ValidEncoding reports whether name is an encoding FileSource can read.
func ValidEncoding(name string) bool {
	if isUTF8(name) {
		return true
	}
	_, err := htmlindex.Get(name)
	return err == nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// splitHeader returns the first non-empty row as the header and the rows
// after it.
func splitHeader(records [][]string) ([]string, [][]string, bool) {
	for i, rec := range records {
		if !core.IsEmptyRow(rec) {
			return rec, records[i+1:], true
		}
	}
	return nil, nil, false
}
