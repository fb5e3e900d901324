package core

import (
	"fmt"
	"strings"
)

// LedgerColumns names the sales worksheet columns a run reads.
// Names must match the header cells exactly.
type LedgerColumns struct {
	Item     string
	Quantity string
}

// DefaultLedgerColumns are used when no column names are configured.
var DefaultLedgerColumns = LedgerColumns{
	Item:     "item name",
	Quantity: "units sold",
}

// ParseSales extracts the sales ledger from the sales worksheet.
// Quantities are kept as raw text; they are parsed during aggregation.
// Rows with neither an item name nor a quantity are skipped.
func ParseSales(t Table, cols LedgerColumns) (SalesLedger, error) {
	idx := MakeHeaderIndex(t.Header)

	var missing []string
	itemPos, ok := idx[cols.Item]
	if !ok {
		missing = append(missing, cols.Item)
	}
	qtyPos, ok := idx[cols.Quantity]
	if !ok {
		missing = append(missing, cols.Quantity)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w: %s", t.Name, ErrMissingColumn, strings.Join(missing, ", "))
	}

	ledger := make(SalesLedger, 0, len(t.Rows))
	for i, row := range t.Rows {
		item := cell(row, itemPos)
		qty := cell(row, qtyPos)
		if item == "" && qty == "" {
			continue
		}
		ledger = append(ledger, SaleRecord{
			Line:     t.Line(i),
			Item:     item,
			Quantity: qty,
		})
	}

	return ledger, nil
}
