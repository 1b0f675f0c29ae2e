package reader

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"smartanalyzer/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first worksheet of an Office Open XML workbook. Cells
// are typed from their stored value and number format, never from the
// formatted text, so "25.00%" or "1,234.50" stay numeric.
func parseXLSX(name string, data []byte, _ Options) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}
	sheet := sheets[0]

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}

	cr := newCellReader(f, sheet)
	rows := make([][]any, len(raw))
	for r, row := range raw {
		cells := make([]any, len(row))
		for c, value := range row {
			if cells[c], err = cr.cell(c+1, r+1, value); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
			}
		}
		rows[r] = cells
	}

	return sheetToDataset(name, rows)
}

// cellReader types raw cell values of one worksheet
type cellReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	// dateStyle caches whether a style index renders numbers as dates
	dateStyle map[int]bool
}

func newCellReader(f *excelize.File, sheet string) *cellReader {
	cr := &cellReader{f: f, sheet: sheet, dateStyle: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		cr.date1904 = *props.Date1904
	}
	return cr
}

func (cr *cellReader) cell(col, row int, value string) (any, error) {
	if value == "" {
		return nil, nil
	}
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := cr.f.GetCellType(cr.sheet, ref)
	if err != nil {
		return nil, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return value == "1" || strings.EqualFold(value, "true"), nil
	case excelize.CellTypeDate:
		if t, ok := parseISODate(value); ok {
			return t, nil
		}
		return value, nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		num, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return value, nil
		}
		isDate, err := cr.isDateCell(ref)
		if err != nil {
			return nil, err
		}
		if isDate {
			if t, err := excelize.ExcelDateToTime(num, cr.date1904); err == nil {
				return t, nil
			}
		}
		return num, nil
	default:
		// shared, inline and formula strings, and error values like #N/A
		return value, nil
	}
}

func (cr *cellReader) isDateCell(ref string) (bool, error) {
	idx, err := cr.f.GetCellStyle(cr.sheet, ref)
	if err != nil || idx == 0 {
		return false, err
	}
	if isDate, ok := cr.dateStyle[idx]; ok {
		return isDate, nil
	}
	style, err := cr.f.GetStyle(idx)
	if err != nil {
		return false, err
	}
	isDate := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	cr.dateStyle[idx] = isDate
	return isDate, nil
}

// isDateNumFmt reports the built-in number formats that render dates or
// times, including the East Asian locale ranges
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 45 && id <= 47:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	default:
		return false
	}
}

// isDateFormatCode inspects a custom format code for date or time tokens,
// ignoring quoted literals, escapes and bracketed sections like [$-409]
func isDateFormatCode(code string) bool {
	var inQuote, inBracket, escaped bool
	for _, ch := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '\\':
			escaped = true
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == ';':
			// only the positive section decides
			return false
		case ch == 'y', ch == 'd', ch == 'h', ch == 's':
			return true
		}
	}
	return false
}

var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999",
	"2006-01-02",
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sheetToDataset treats the first row as the header. Rows wider than the
// header extend it with unnamed columns, as spreadsheet readers do.
func sheetToDataset(name string, rows [][]any) (*dataset.Dataset, error) {
	if len(rows) == 0 {
		return dataset.New(name, nil)
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = headerText(cell)
	}
	body := rows[1:]
	for _, row := range body {
		for len(header) < len(row) {
			header = append(header, "")
		}
	}

	headers := normalizeHeaders(header)
	opts := dataset.SpreadsheetOptions()
	columns := make([]*dataset.Column, len(headers))
	for c, h := range headers {
		cells := make([]any, len(body))
		for r, row := range body {
			if c < len(row) {
				cells[r] = row[c]
			}
		}
		columns[c] = dataset.NewColumn(h, cells, opts)
	}
	return dataset.New(name, columns)
}

func headerText(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return dataset.FormatNumber(v)
	case time.Time:
		return dataset.FormatTime(v)
	default:
		return fmt.Sprint(v)
	}
}
