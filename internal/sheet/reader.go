// Package sheet loads worksheets from uploaded workbooks into core.Table
// values and writes report tables back out as XLSX or CSV.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/consumo/internal/core"
	"github.com/xuri/excelize/v2"
)

// Errors returned by Read. Their messages are matched by core.MapError.
var (
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEmptyFile         = errors.New("empty file")
)

// Format is a supported workbook encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatXLSX
	FormatCSV
)

// DetectFormat picks the format from a file name's extension.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX
	case ".csv", ".tsv", ".txt":
		return FormatCSV
	default:
		return FormatUnknown
	}
}

// Read loads one worksheet from r. filename selects the format and names
// the table in error messages.
//
// For workbooks, sheetIndex is a 0-based position in the workbook's sheet
// list. A CSV file holds exactly one sheet, so sheetIndex is ignored.
// The first row becomes the table header.
func Read(filename string, r io.Reader, sheetIndex int) (core.Table, error) {
	format := DetectFormat(filename)
	if format == FormatUnknown {
		return core.Table{}, fmt.Errorf("%s: %w (expected .xlsx or .csv)", filename, ErrUnsupportedFormat)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return core.Table{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return core.Table{}, fmt.Errorf("%s: %w", filename, ErrEmptyFile)
	}

	var rows [][]string
	switch format {
	case FormatXLSX:
		rows, err = readWorkbook(data, sheetIndex)
	case FormatCSV:
		rows, err = readCSV(data, filename)
	}
	if err != nil {
		return core.Table{}, fmt.Errorf("%s: %w", filename, err)
	}

	return toTable(filename, rows), nil
}

func readWorkbook(data []byte, sheetIndex int) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheetIndex < 0 || sheetIndex >= len(sheets) {
		return nil, fmt.Errorf("%w: index %d, workbook has %d sheet(s)", ErrSheetNotFound, sheetIndex, len(sheets))
	}

	// Raw values keep cell number formats from rounding quantities.
	rows, err := f.GetRows(sheets[sheetIndex], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[sheetIndex], err)
	}
	return rows, nil
}

func readCSV(data []byte, filename string) ([][]string, error) {
	cr := csv.NewReader(decodeText(data))
	cr.Comma = sniffDelimiter(filename, data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

// sniffDelimiter picks the field separator. Tab-separated files are
// recognized by extension; otherwise the first line decides between
// semicolon (spreadsheet exports in comma-decimal locales) and comma.
func sniffDelimiter(filename string, data []byte) rune {
	if strings.EqualFold(filepath.Ext(filename), ".tsv") {
		return '\t'
	}
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.Count(first, []byte{';'}) > bytes.Count(first, []byte{','}) {
		return ';'
	}
	return ','
}

func toTable(name string, rows [][]string) core.Table {
	t := core.Table{Name: name}
	if len(rows) == 0 {
		return t
	}
	t.Header = rows[0]
	t.Rows = rows[1:]
	return t
}
