// Package core provides the business logic for ingredient consumption reports.
// This package has no UI dependencies and can be used by any frontend.
package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table is one loaded worksheet: the header row and the data rows below it.
// Rows may be ragged; reading past the end of a row yields "".
type Table struct {
	Name   string     // Source name used in error messages: "recipes", "sales"
	Header []string   // First worksheet row
	Rows   [][]string // Remaining rows, in worksheet order
}

// Line returns the 1-based worksheet row number of data row i.
// The header occupies row 1.
func (t Table) Line(i int) int {
	return i + 2
}

// Width returns the length of the longest row, header included.
func (t Table) Width() int {
	w := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Empty reports whether the table has neither a header nor rows.
func (t Table) Empty() bool {
	return len(t.Header) == 0 && len(t.Rows) == 0
}

// Ingredient is one recipe line: how much of an ingredient one sold unit uses.
type Ingredient struct {
	Name     string
	Quantity decimal.Decimal
}

// Recipe is a menu item and the ingredients one unit of it consumes.
type Recipe struct {
	Name        string
	Ingredients []Ingredient
}

// SaleRecord is one sales ledger line. Quantity is kept as the raw cell
// text; it is parsed during aggregation so bad values only skip the record.
type SaleRecord struct {
	Line     int
	Item     string
	Quantity string
}

// SalesLedger is the ordered list of sales records for one run.
type SalesLedger []SaleRecord

// WarningKind classifies a non-fatal problem found while processing.
type WarningKind string

const (
	WarnInvalidQuantity  WarningKind = "invalid_quantity"
	WarnNoMatch          WarningKind = "no_match"
	WarnComponentNoMatch WarningKind = "component_no_match"
	WarnEmptyPromotion   WarningKind = "empty_promotion"
	WarnEmptySection     WarningKind = "empty_section"
	WarnDuplicateSection WarningKind = "duplicate_section"
)

// RecordWarning describes a row that was skipped or only partly applied.
type RecordWarning struct {
	Kind    WarningKind `json:"kind"`
	Line    int         `json:"line,omitempty"`
	Item    string      `json:"item,omitempty"`
	Value   string      `json:"value,omitempty"`
	Message string      `json:"message"`
}

// RunStats counts what happened to each sales record during aggregation.
type RunStats struct {
	Records             int `json:"records"`
	AppliedPromotion    int `json:"applied_promotion"`
	AppliedDirect       int `json:"applied_direct"`
	InvalidQuantity     int `json:"invalid_quantity"`
	Unmatched           int `json:"unmatched"`
	UnmatchedComponents int `json:"unmatched_components"`
	EmptyPromotions     int `json:"empty_promotions"`
}

// Inputs are the three loaded worksheets a run consumes.
type Inputs struct {
	Recipes    Table
	Promotions Table
	Sales      Table
}

// RunResult contains the final result of one consumption run.
type RunResult struct {
	RunID           string          `json:"run_id"`
	Threshold       int             `json:"threshold"`
	Rows            []ReportRow     `json:"rows"`
	Stats           RunStats        `json:"stats"`
	Warnings        []RecordWarning `json:"warnings,omitempty"`
	CatalogWarnings []RecordWarning `json:"catalog_warnings,omitempty"`
	Items           int             `json:"items"`
	Promotions      int             `json:"promotions"`
	Duration        time.Duration   `json:"duration"`
}
