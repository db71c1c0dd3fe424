package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opsdeck/whmcs-import/internal/pipeline"
)

// Report name suffixes, appended to the primary output's base name.
const (
	ValidationSuffix  = "validation_errors"
	CompanyDiffSuffix = "transforms_companyName"
	PersonDiffSuffix  = "transforms_personName"
)

var validationHeaders = []string{
	"row", "field", "reason", "raw", "sanitized",
	"email", "client_id", "transaction_id", "invoice_id",
}

var transformHeaders = []string{
	"field", "original", "sanitized",
	"email", "client_id", "transaction_id", "invoice_id",
}

// sidecarPath derives a report path from the primary output path:
// out.csv + "validation_errors" + ".md" → out.validation_errors.md.
func sidecarPath(outPath, suffix, ext string) string {
	base := strings.TrimSuffix(outPath, filepath.Ext(outPath))
	return base + "." + suffix + ext
}

// WriteValidationReport writes the validation-error trail as a full CSV plus
// a Markdown summary capped at maxRows, and returns the paths written. The
// Markdown also goes to the CI summary channel when one is available.
func WriteValidationReport(outPath, runID string, errs []pipeline.ValidationError, maxRows int) ([]string, error) {
	rows := make([][]string, len(errs))
	for i, e := range errs {
		rows[i] = []string{
			fmt.Sprintf("%d", e.RowIndex), e.Field, e.Reason, e.Raw, e.Sanitized,
			e.IDs.Email, e.IDs.ClientID, e.IDs.TransactionID, e.IDs.InvoiceID,
		}
	}
	return writeReportPair(outPath, ValidationSuffix, runID, validationHeaders, rows, maxRows)
}

// WriteTransformReport writes one transform-diff trail (person or company,
// chosen by suffix) as a full CSV plus a capped Markdown summary.
func WriteTransformReport(outPath, suffix, runID string, diffs []pipeline.TransformDiff, maxRows int) ([]string, error) {
	rows := make([][]string, len(diffs))
	for i, d := range diffs {
		rows[i] = []string{
			d.Field, d.Original, d.Sanitized,
			d.IDs.Email, d.IDs.ClientID, d.IDs.TransactionID, d.IDs.InvoiceID,
		}
	}
	return writeReportPair(outPath, suffix, runID, transformHeaders, rows, maxRows)
}

func writeReportPair(outPath, suffix, runID string, headers []string, rows [][]string, maxRows int) ([]string, error) {
	csvPath := sidecarPath(outPath, suffix, ".csv")
	if err := writeCSV(csvPath, headers, rows); err != nil {
		return nil, err
	}

	md := renderMarkdown(suffix, runID, headers, rows, maxRows)
	mdPath := sidecarPath(outPath, suffix, ".md")
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return nil, fmt.Errorf("writeReportPair: write %q: %w", mdPath, err)
	}

	if err := publishSummary(md); err != nil {
		return nil, err
	}
	return []string{csvPath, mdPath}, nil
}

// renderMarkdown builds the capped human-readable summary table.
func renderMarkdown(title, runID string, headers []string, rows [][]string, maxRows int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s (%d total, run %s)\n\n", title, len(rows), runID)

	if len(rows) == 0 {
		b.WriteString("No entries.\n")
		return b.String()
	}

	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")

	shown := rows
	if maxRows > 0 && len(shown) > maxRows {
		shown = shown[:maxRows]
	}
	for _, row := range shown {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = escapeMarkdownCell(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	if len(shown) < len(rows) {
		fmt.Fprintf(&b, "\n_%d more rows in the CSV report._\n", len(rows)-len(shown))
	}
	return b.String()
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// publishSummary appends the Markdown to the GitHub Actions step summary
// when running under CI, and prints it otherwise so an interactive operator
// still sees it.
func publishSummary(md string) error {
	summaryPath := os.Getenv("GITHUB_STEP_SUMMARY")
	if summaryPath == "" {
		fmt.Println(md)
		return nil
	}

	f, err := os.OpenFile(summaryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("publishSummary: open %q: %w", summaryPath, err)
	}
	defer f.Close()

	if _, err := f.WriteString(md + "\n"); err != nil {
		return fmt.Errorf("publishSummary: append: %w", err)
	}
	return nil
}
