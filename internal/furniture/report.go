package furniture

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ReportSheet is the sheet name of a summary workbook.
const ReportSheet = "변환 결과"

// ReportHeaders are the summary workbook columns.
var ReportHeaders = []string{"상품명", "하우저 번호", "원본 행 번호"}

// ReportFilename names the copy of a converted sheet handed to the user.
func ReportFilename(now time.Time) string {
	return fmt.Sprintf("howser_result_%s.xlsx", now.Format("20060102_150405"))
}

// WriteReport writes a summary workbook listing every item. Items without a
// catalog number carry their error message in red in the first column.
func WriteReport(path string, items []ItemResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ReportSheet); err != nil {
		return fmt.Errorf("failed to name report sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	red, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: ColorError}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	header := make([]interface{}, len(ReportHeaders))
	for i, h := range ReportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ReportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	if err := f.SetCellStyle(ReportSheet, "A1", cellName(len(ReportHeaders), 1), bold); err != nil {
		return fmt.Errorf("failed to style report header: %w", err)
	}

	for i, it := range items {
		row := i + 2
		if !it.Matched() {
			if err := f.SetCellValue(ReportSheet, cellName(1, row), it.Error); err != nil {
				return fmt.Errorf("failed to write report row %d: %w", row, err)
			}
			if err := f.SetCellStyle(ReportSheet, cellName(1, row), cellName(1, row), red); err != nil {
				return fmt.Errorf("failed to style report row %d: %w", row, err)
			}
			continue
		}
		values := []interface{}{it.ProductName, catalogValue(it.Number), it.Row}
		if err := f.SetSheetRow(ReportSheet, cellName(1, row), &values); err != nil {
			return fmt.Errorf("failed to write report row %d: %w", row, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}
