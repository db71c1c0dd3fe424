package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// textColumns are pinned to the text number format so spreadsheet
// applications do not coerce them into dates or numbers on open.
var textColumns = map[string]bool{
	"date (MM/DD/YYYY)": true,
	"postalCode":        true,
	"receiptNumber":     true,
}

// WriteSpreadsheet mirrors the table into an xlsx workbook at path.
func WriteSpreadsheet(path string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	// Number format 49 is the built-in "@" (text) format.
	textStyle, err := f.NewStyle(&excelize.Style{NumFmt: 49})
	if err != nil {
		return fmt.Errorf("WriteSpreadsheet: create text style: %w", err)
	}
	for i, h := range headers {
		if !textColumns[h] {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("WriteSpreadsheet: column name for %d: %w", i+1, err)
		}
		if err := f.SetColStyle(sheet, col, textStyle); err != nil {
			return fmt.Errorf("WriteSpreadsheet: pin column %q as text: %w", h, err)
		}
	}

	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("WriteSpreadsheet: save %q: %w", path, err)
	}
	return nil
}

// setRow writes every cell as an explicit string so excelize never infers a
// numeric type, even for unpinned columns.
func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return fmt.Errorf("setRow: cell name (%d,%d): %w", i+1, rowNum, err)
		}
		if err := f.SetCellStr(sheet, cell, v); err != nil {
			return fmt.Errorf("setRow: set %s: %w", cell, err)
		}
	}
	return nil
}
