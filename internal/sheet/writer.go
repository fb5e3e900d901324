package sheet

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/JonMunkholm/consumo/internal/core"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportSheetName is the worksheet name of exported reports.
const ReportSheetName = "Consumo Insumos"

// WriteXLSX writes t as a single-sheet workbook. Cells holding a plain
// decimal number are stored as numbers so they stay summable in a
// spreadsheet; everything else is stored as text.
func WriteXLSX(w io.Writer, t core.Table, sheetName string) error {
	if sheetName == "" {
		sheetName = ReportSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for col, name := range t.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, bold); err != nil {
			return fmt.Errorf("style header %s: %w", cell, err)
		}
	}

	for i, row := range t.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(value)); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	if n := t.Width(); n > 0 {
		last, err := excelize.ColumnNumberToName(n)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, "A", last, 18); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cellValue(s string) any {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.InexactFloat64()
}

// WriteCSV writes t as comma-separated text with the header first.
func WriteCSV(w io.Writer, t core.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}
