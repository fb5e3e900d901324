package core

import "github.com/shopspring/decimal"

// Report column headers, in output order.
const (
	ColIngredient    = "ingredient"
	ColTotalQuantity = "total quantity"
	ColUnit          = "unit"
)

// ReportColumns is the header row of the exported report.
var ReportColumns = []string{ColIngredient, ColTotalQuantity, ColUnit}

// ReportRow is one line of the consumption report.
type ReportRow struct {
	Ingredient string          `json:"ingredient"`
	Quantity   decimal.Decimal `json:"total_quantity"`
	Unit       string          `json:"unit"`
}

// Assemble joins totals with units, one row per ingredient in totals
// order. Ingredients without a known unit get UnspecifiedUnit.
func Assemble(totals Totals, units UnitCatalog) []ReportRow {
	rows := make([]ReportRow, 0, totals.Len())
	for _, ing := range totals.Ingredients() {
		rows = append(rows, ReportRow{
			Ingredient: ing,
			Quantity:   totals.Get(ing),
			Unit:       units.Unit(ing),
		})
	}
	return rows
}

// ReportTable renders report rows as an exportable table.
func ReportTable(rows []ReportRow) Table {
	t := Table{
		Name:   "report",
		Header: append([]string(nil), ReportColumns...),
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Ingredient, r.Quantity.String(), r.Unit})
	}
	return t
}
