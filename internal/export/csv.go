// Package export serializes assembled receipt records for download, as CSV
// with a fixed header row or as an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/garyjia/receipt-intake/internal/receipt"
)

// CSVExporter writes records as comma-separated values. Every data field is
// quoted so merchant names and OCR artifacts containing commas survive the
// round trip.
type CSVExporter struct {
	baseCurrency string
}

// NewCSVExporter creates an exporter; the final column is named after the
// base currency (e.g. "GBP Amount").
func NewCSVExporter(baseCurrency string) *CSVExporter {
	if baseCurrency == "" {
		baseCurrency = "GBP"
	}
	return &CSVExporter{baseCurrency: baseCurrency}
}

// Header returns the fixed column header row.
func (e *CSVExporter) Header() []string {
	return []string{
		"File Name", "Employee", "Date", "Provider", "Category",
		"Payment Method", "Country", "Original Amount", "Original Currency",
		fmt.Sprintf("%s Amount", e.baseCurrency),
	}
}

// Write serializes the records to w. Failed records are included as rows so
// the user can see which files need a retry.
func (e *CSVExporter) Write(w io.Writer, records []*receipt.Record) error {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(e.Header(), ","))

	for _, rec := range records {
		fields := recordFields(rec)
		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = quoteField(f)
		}
		lines = append(lines, strings.Join(quoted, ","))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	if err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// recordFields flattens a record into the column order of Header.
func recordFields(rec *receipt.Record) []string {
	date := ""
	if rec.Date != nil {
		date = rec.Date.Format("2006-01-02")
	}
	return []string{
		rec.FileName,
		rec.Employee,
		date,
		rec.Provider,
		string(rec.Category),
		rec.PaymentMethod,
		rec.Country,
		fmt.Sprintf("%.2f", rec.OriginalAmount),
		rec.OriginalCurrency,
		fmt.Sprintf("%.2f", rec.ConvertedAmount),
	}
}

// quoteField wraps a field in double quotes, doubling embedded quotes.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
