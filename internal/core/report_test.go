package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	var totals Totals
	totals.Add("rice", dec("0.5"))
	totals.Add("wasabi", dec("12"))
	totals.Add("nori", dec("5"))

	rows := Assemble(totals, UnitCatalog{"rice": "kg", "nori": "unit"})

	require.Len(t, rows, 3)
	want := []struct{ ingredient, qty, unit string }{
		{"rice", "0.5", "kg"},
		{"wasabi", "12", UnspecifiedUnit},
		{"nori", "5", "unit"},
	}
	for i, w := range want {
		require.Equal(t, w.ingredient, rows[i].Ingredient)
		require.True(t, dec(w.qty).Equal(rows[i].Quantity), "row %d quantity %s", i, rows[i].Quantity)
		require.Equal(t, w.unit, rows[i].Unit)
	}
}

func TestAssemble_Empty(t *testing.T) {
	rows := Assemble(Totals{}, UnitCatalog{"rice": "kg"})
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestReportTable(t *testing.T) {
	tbl := ReportTable([]ReportRow{
		{Ingredient: "rice", Quantity: dec("0.50"), Unit: "kg"},
		{Ingredient: "nori", Quantity: dec("5"), Unit: "unit"},
	})

	require.Equal(t, "report", tbl.Name)
	require.Equal(t, []string{"ingredient", "total quantity", "unit"}, tbl.Header)
	require.Equal(t, [][]string{
		{"rice", "0.5", "kg"},
		{"nori", "5", "unit"},
	}, tbl.Rows)

	tbl.Header[0] = "mutated"
	require.Equal(t, ColIngredient, ReportColumns[0], "header is a copy")
}
