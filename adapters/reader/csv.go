package reader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"smartanalyzer/domain/dataset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseCSV reads comma separated text with a header row
func parseCSV(name string, data []byte, _ Options) (*dataset.Dataset, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("'utf-8' codec can't decode byte at position %d: invalid start byte", invalidUTF8Offset(data))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("No columns to parse from file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV file: %w", err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("Error tokenizing data. Expected %d fields in line %d, saw %d", len(header), line, len(record))
		}
		rows = append(rows, record)
	}

	return gridToDataset(name, header, rows, dataset.TextOptions())
}

func invalidUTF8Offset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
