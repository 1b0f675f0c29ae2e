package reader

import (
	"bytes"
	"fmt"

	"smartanalyzer/domain/dataset"

	"github.com/extrame/xls"
)

// parseXLS reads the first worksheet of a legacy BIFF workbook
func parseXLS(name string, data []byte, opts Options) (*dataset.Dataset, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), opts.XLSCharset)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("failed to read first worksheet")
	}

	var rows [][]any
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]any, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			if text := row.Col(c); text != "" {
				cells[c] = text
			}
		}
		rows = append(rows, cells)
	}

	return sheetToDataset(name, trimTrailingEmptyRows(rows))
}

// sheetRow returns row i, or nil when the sheet has no records for it.
// WorkSheet.Row dereferences a missing row.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func trimTrailingEmptyRows(rows [][]any) [][]any {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		empty := true
		for _, cell := range last {
			if cell != nil {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
		rows = rows[:len(rows)-1]
	}
	return rows
}
