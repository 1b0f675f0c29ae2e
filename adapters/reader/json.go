package reader

import (
	"errors"
	"strconv"
	"strings"

	"smartanalyzer/domain/dataset"

	"github.com/tidwall/gjson"
)

// parseJSON accepts an array of records, an array of arrays, or an object of
// columns whose values are index-keyed objects or arrays.
func parseJSON(name string, data []byte, _ Options) (*dataset.Dataset, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("Expected object or value")
	}
	root := gjson.ParseBytes(data)

	switch {
	case root.IsArray():
		return jsonArray(name, root)
	case root.IsObject():
		return jsonColumns(name, root)
	default:
		return nil, errors.New("If using all scalar values, you must pass an index")
	}
}

func jsonArray(name string, root gjson.Result) (*dataset.Dataset, error) {
	items := root.Array()
	keys := newKeyOrder()
	rows := make([]map[string]any, 0, len(items))

	for _, item := range items {
		row := make(map[string]any)
		switch {
		case item.IsObject():
			item.ForEach(func(key, value gjson.Result) bool {
				keys.add(key.String())
				row[key.String()] = jsonCell(value)
				return true
			})
		case item.IsArray():
			for j, value := range item.Array() {
				key := strconv.Itoa(j)
				keys.add(key)
				row[key] = jsonCell(value)
			}
		default:
			keys.add("0")
			row["0"] = jsonCell(item)
		}
		rows = append(rows, row)
	}

	return recordsToDataset(name, keys.keys, rows, jsonOptions)
}

func jsonColumns(name string, root gjson.Result) (*dataset.Dataset, error) {
	columns := newKeyOrder()
	index := newKeyOrder()
	values := make(map[string]map[string]any)
	scalars := 0

	root.ForEach(func(key, value gjson.Result) bool {
		col := key.String()
		columns.add(col)
		cells := make(map[string]any)
		switch {
		case value.IsObject():
			value.ForEach(func(idx, cell gjson.Result) bool {
				index.add(idx.String())
				cells[idx.String()] = jsonCell(cell)
				return true
			})
		case value.IsArray():
			for i, cell := range value.Array() {
				idx := strconv.Itoa(i)
				index.add(idx)
				cells[idx] = jsonCell(cell)
			}
		default:
			scalars++
		}
		values[col] = cells
		return true
	})

	if scalars > 0 && len(index.keys) == 0 {
		return nil, errors.New("If using all scalar values, you must pass an index")
	}

	rows := make([]map[string]any, len(index.keys))
	for r, idx := range index.keys {
		row := make(map[string]any, len(columns.keys))
		for _, col := range columns.keys {
			row[col] = values[col][idx]
		}
		rows[r] = row
	}
	return recordsToDataset(name, columns.keys, rows, jsonOptions)
}

// jsonCell converts one JSON value; nested values keep their raw text
func jsonCell(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return v.Float()
	case gjson.String:
		return v.String()
	default:
		return v.Raw
	}
}

// jsonOptions coerces numeric text and parses dates only in date-like columns
func jsonOptions(column string) dataset.InferOptions {
	return dataset.InferOptions{ParseNumbers: true, ParseDates: isDateLikeColumn(column)}
}

func isDateLikeColumn(column string) bool {
	lower := strings.ToLower(column)
	return strings.HasSuffix(lower, "_at") ||
		strings.HasSuffix(lower, "_time") ||
		strings.HasPrefix(lower, "timestamp") ||
		lower == "modified" ||
		lower == "date" ||
		lower == "datetime"
}
