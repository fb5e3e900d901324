package core

// convert.go turns worksheet cells into names and quantities.
//
// Recipe and sales workbooks are edited by hand, so cells carry the usual
// spreadsheet noise:
//   - Excel formula prefixes (="value")
//   - Surrounding quotes and non-breaking spaces
//   - Currency symbols and thousands separators in numbers
//   - Decimal commas (0,25) next to decimal points (0.25)
//   - Accounting negatives "(12.50)"

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotNumeric is returned by ParseQuantity for cells that hold no number.
var ErrNotNumeric = errors.New("not a number")

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseQuantity parses a cell as an exact decimal number.
// Empty cells and text return ErrNotNumeric; they are never read as zero.
func ParseQuantity(s string) (decimal.Decimal, error) {
	raw := CleanCell(s)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty value: %w", ErrNotNumeric)
	}
	s = raw

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and spaces
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "\u20ac", "") // Euro
	s = strings.ReplaceAll(s, "\u00a3", "") // Pound
	s = strings.ReplaceAll(s, " ", "")

	s = normalizeSeparators(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%q: %w", raw, ErrNotNumeric)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q: %w", raw, ErrNotNumeric)
	}
	return d, nil
}

// groupedCountRegex matches counts written with comma thousands groups
// ("1,500", "12,000"). A leading zero group ("0,500") is a decimal comma.
var groupedCountRegex = regexp.MustCompile(`^[+-]?[1-9]\d{0,2}(,\d{3})+$`)

// ParseUnitsSold parses a sales units-sold cell. Counts use a comma only to
// group thousands, so "1,500" is fifteen hundred; anything else parses as
// ParseQuantity does.
func ParseUnitsSold(s string) (decimal.Decimal, error) {
	if v := strings.ReplaceAll(CleanCell(s), " ", ""); groupedCountRegex.MatchString(v) {
		return decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
	}
	return ParseQuantity(s)
}

// normalizeSeparators rewrites s so '.' is the only decimal separator.
// When both ',' and '.' appear, the last one is the decimal separator.
// A lone ',' is a decimal comma unless it groups exactly three digits
// more than once ("1,000,000").
func normalizeSeparators(s string) string {
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")

	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	default:
		return s
	}
}

// IsTextual reports whether a cell holds a name rather than a number or nothing.
func IsTextual(s string) bool {
	s = CleanCell(s)
	if s == "" {
		return false
	}
	_, err := ParseQuantity(s)
	return err != nil
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace, including non-breaking spaces
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	// Remove any surrounding quotes
	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// cell returns the cleaned value of column col, or "" when the row is short.
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return CleanCell(row[col])
}

// HeaderIndex maps exact (cleaned) column names to their position in the header row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a header row.
// The first occurrence of a repeated column name wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := CleanCell(h)
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}
