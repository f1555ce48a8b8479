// Package export renders month exports as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FileName is the download name for a month's workbook.
func FileName(month core.MonthKey) string {
	return fmt.Sprintf("persis-%s.xlsx", month)
}

// MonthWorkbook builds a workbook with the same tabs the Sheets export
// writes. The caller must Close the file.
func MonthWorkbook(m core.MonthExport) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, tab := range sheets.MonthTabs(m) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), tab.Name); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(tab.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("add sheet %s: %w", tab.Name, err)
		}

		if err := writeTab(f, tab, bold); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeTab(f *excelize.File, tab sheets.Tab, headerStyle int) error {
	for i, row := range tab.Values() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(tab.Name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", tab.Name, i+1, err)
		}
	}
	if err := f.SetRowStyle(tab.Name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", tab.Name, err)
	}
	return nil
}

// WriteMonth streams the month's workbook to w.
func WriteMonth(w io.Writer, m core.MonthExport) error {
	f, err := MonthWorkbook(m)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
