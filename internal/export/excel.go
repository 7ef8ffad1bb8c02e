package export

import (
	"fmt"

	"github.com/garyjia/receipt-intake/internal/receipt"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExcelExporter writes records as an XLSX workbook with the same columns as
// the CSV export.
type ExcelExporter struct {
	csv    *CSVExporter
	logger *zap.Logger
}

// NewExcelExporter creates an XLSX exporter sharing the CSV column layout.
func NewExcelExporter(baseCurrency string, logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{
		csv:    NewCSVExporter(baseCurrency),
		logger: logger,
	}
}

// Workbook builds the XLSX file and returns its bytes.
func (e *ExcelExporter) Workbook(records []*receipt.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Receipts"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		e.logger.Debug("Could not remove default sheet", zap.Error(err))
	}

	for col, h := range e.csv.Header() {
		e.setCell(f, sheet, col+1, 1, h)
	}

	for i, rec := range records {
		for col, v := range recordFields(rec) {
			e.setCell(f, sheet, col+1, i+2, v)
		}
	}

	// Widen the name-ish columns.
	_ = f.SetColWidth(sheet, "A", "B", 24)
	_ = f.SetColWidth(sheet, "C", "C", 12)
	_ = f.SetColWidth(sheet, "D", "D", 28)
	_ = f.SetColWidth(sheet, "E", "G", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("Workbook generated",
		zap.Int("rows", len(records)),
		zap.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

func (e *ExcelExporter) setCell(f *excelize.File, sheet string, col, row int, value string) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}
