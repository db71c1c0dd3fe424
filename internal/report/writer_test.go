package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func makeRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("row-%d", i), "x"}
	}
	return rows
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return records
}

func TestWriteTable_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	headers := []string{"a", "b"}

	written, err := WriteTable(path, headers, makeRows(5), 10)
	if err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	if len(written) != 1 || written[0] != path {
		t.Fatalf("written = %v, want [%s]", written, path)
	}

	records := readCSV(t, path)
	if len(records) != 6 {
		t.Errorf("got %d records, want header + 5 rows", len(records))
	}
	if records[0][0] != "a" || records[1][0] != "row-0" {
		t.Errorf("unexpected content: %v", records[:2])
	}
}

func TestWriteTable_UnlimitedWhenMaxRowsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	written, err := WriteTable(path, []string{"a", "b"}, makeRows(100), 0)
	if err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	if len(written) != 1 {
		t.Errorf("written = %v, want single unsplit file", written)
	}
}

func TestWriteTable_Chunked(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	headers := []string{"a", "b"}

	written, err := WriteTable(path, headers, makeRows(25), 10)
	if err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "out_part001.csv"),
		filepath.Join(dir, "out_part002.csv"),
		filepath.Join(dir, "out_part003.csv"),
	}
	if len(written) != len(want) {
		t.Fatalf("written = %v, want %v", written, want)
	}
	for i := range want {
		if written[i] != want[i] {
			t.Errorf("part %d = %s, want %s", i, written[i], want[i])
		}
	}

	// No unsplit base file alongside the parts.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("base file %s should not exist when output is chunked", path)
	}

	// Every part repeats the header; the last carries the remainder.
	for i, wantRows := range []int{10, 10, 5} {
		records := readCSV(t, written[i])
		if records[0][0] != "a" {
			t.Errorf("part %d missing header: %v", i+1, records[0])
		}
		if len(records) != wantRows+1 {
			t.Errorf("part %d has %d rows, want %d", i+1, len(records)-1, wantRows)
		}
	}
	last := readCSV(t, written[2])
	if last[1][0] != "row-20" {
		t.Errorf("last part starts at %s, want row-20", last[1][0])
	}
}

func TestWriteTable_RemovesStaleArtifacts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	headers := []string{"a", "b"}

	// First run spills into three parts.
	if _, err := WriteTable(path, headers, makeRows(25), 10); err != nil {
		t.Fatalf("first WriteTable failed: %v", err)
	}

	// Second run fits in one file; old parts must disappear.
	written, err := WriteTable(path, headers, makeRows(3), 10)
	if err != nil {
		t.Fatalf("second WriteTable failed: %v", err)
	}
	if len(written) != 1 || written[0] != path {
		t.Fatalf("written = %v, want [%s]", written, path)
	}
	stale, err := filepath.Glob(filepath.Join(dir, "out_part*.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if len(stale) != 0 {
		t.Errorf("stale parts remain: %v", stale)
	}
}

func TestWriteTable_RemovesStaleBaseWhenChunking(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	headers := []string{"a", "b"}

	if _, err := WriteTable(path, headers, makeRows(3), 10); err != nil {
		t.Fatalf("first WriteTable failed: %v", err)
	}
	if _, err := WriteTable(path, headers, makeRows(25), 10); err != nil {
		t.Fatalf("second WriteTable failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("stale base file %s should have been removed", path)
	}
}
