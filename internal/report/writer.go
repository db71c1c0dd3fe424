// Package report writes the pipeline's artifacts: the chunked import table,
// its optional spreadsheet mirror, and the validation/transform audit
// reports.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteTable writes headers plus rows as CSV at path. When maxRows is
// positive and the row count exceeds it, the output is split into
// sequentially numbered, zero-padded part files sharing the base name and
// extension, and no unsplit base file is written. Stale artifacts of a
// previous run (the base file and any old parts) are removed first so a
// shrinking row count never leaves orphans behind. Returns the paths
// written.
func WriteTable(path string, headers []string, rows [][]string, maxRows int) ([]string, error) {
	if err := removeStale(path); err != nil {
		return nil, err
	}

	if maxRows <= 0 || len(rows) <= maxRows {
		if err := writeCSV(path, headers, rows); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	var written []string
	for start, part := 0, 1; start < len(rows); part++ {
		end := start + maxRows
		if end > len(rows) {
			end = len(rows)
		}
		p := partPath(path, part)
		if err := writeCSV(p, headers, rows[start:end]); err != nil {
			return nil, err
		}
		written = append(written, p)
		start = end
	}
	return written, nil
}

// partPath derives the n-th part file name: out.csv → out_part001.csv.
func partPath(path string, n int) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_part%03d%s", base, n, ext)
}

func removeStale(path string) error {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	stale, err := filepath.Glob(base + "_part*" + ext)
	if err != nil {
		return fmt.Errorf("removeStale: glob %q: %w", base, err)
	}
	stale = append(stale, path)

	for _, p := range stale {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removeStale: remove %q: %w", p, err)
		}
	}
	return nil
}

func writeCSV(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writeCSV: create %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		f.Close()
		return fmt.Errorf("writeCSV: write header of %q: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("writeCSV: write rows of %q: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("writeCSV: close %q: %w", path, err)
	}
	return nil
}
