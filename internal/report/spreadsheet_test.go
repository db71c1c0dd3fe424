package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteSpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.xlsx")
	headers := []string{"firstName", "date (MM/DD/YYYY)", "postalCode"}
	rows := [][]string{
		{"Ann", "05/01/2023", "01101"},
		{"Bob", "12/31/2023", "0123"},
	}

	if err := WriteSpreadsheet(path, headers, rows); err != nil {
		t.Fatalf("WriteSpreadsheet failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	checks := map[string]string{
		"A1": "firstName",
		"B1": "date (MM/DD/YYYY)",
		"A2": "Ann",
		"B2": "05/01/2023",
		"C2": "01101", // leading zero survives the text format
		"C3": "0123",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue("Sheet1", cell)
		if err != nil {
			t.Fatalf("reading %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}

	// Date and postal columns carry the text number format.
	for _, cell := range []string{"B2", "C2"} {
		styleID, err := f.GetCellStyle("Sheet1", cell)
		if err != nil {
			t.Fatalf("style of %s: %v", cell, err)
		}
		if styleID == 0 {
			t.Errorf("%s has the default style, want the pinned text style", cell)
		}
	}
}
