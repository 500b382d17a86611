package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/alanyoungcy/relicbot/internal/domain"
)

// ExportXLSX writes both full-length rankings to a workbook at path, one
// sheet per ranking.
func ExportXLSX(path string, value, profit domain.Ranking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "By Value"); err != nil {
		return fmt.Errorf("report: rename sheet: %w", err)
	}
	if _, err := f.NewSheet("By Profit"); err != nil {
		return fmt.Errorf("report: add sheet: %w", err)
	}

	if err := writeSheet(f, "By Value", "Expected Value", value); err != nil {
		return err
	}
	if err := writeSheet(f, "By Profit", "Profit (EV/Price)", profit); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet, metricHeader string, ranking domain.Ranking) error {
	headers := []string{"Rank", "Relic", metricHeader}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("report: header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("report: write header: %w", err)
		}
	}

	for i, e := range ranking {
		row := i + 2
		values := []any{i + 1, e.Name, e.Metric}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("report: cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("report: write row %d: %w", row, err)
			}
		}
	}
	return nil
}
