package reader

import (
	"bytes"
	"fmt"

	"smartanalyzer/domain/dataset"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// parseFeather reads a Feather v2 file, which is the Arrow IPC file format.
// All record batches are concatenated.
func parseFeather(name string, data []byte, _ Options) (*dataset.Dataset, error) {
	mem := memory.NewGoAllocator()
	rdr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("failed to open feather file: %w", err)
	}
	defer rdr.Close()

	schema := rdr.Schema()
	fields := schema.Fields()
	cells := make([][]any, len(fields))

	for i := 0; i < rdr.NumRecords(); i++ {
		rec, err := rdr.Record(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read record batch %d: %w", i, err)
		}
		for c := range fields {
			cells[c] = appendArrowCells(cells[c], rec.Column(c))
		}
	}

	headers := make([]string, len(fields))
	for c, f := range fields {
		headers[c] = f.Name
	}
	headers = normalizeHeaders(headers)

	columns := make([]*dataset.Column, len(fields))
	for c, f := range fields {
		if cells[c] == nil {
			cells[c] = []any{}
		}
		col := dataset.NewColumn(headers[c], cells[c], dataset.InferOptions{})
		if f.Type.ID() == arrow.DICTIONARY && col.Kind != dataset.KindCategorical {
			col = forceCategorical(col)
		}
		columns[c] = col
	}
	return dataset.New(name, columns)
}

// appendArrowCells converts one Arrow array into reader cells
func appendArrowCells(dst []any, arr arrow.Array) []any {
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			dst = append(dst, nil)
			continue
		}
		dst = append(dst, arrowValue(arr, i))
	}
	return dst
}

func arrowValue(arr arrow.Array, i int) any {
	switch a := arr.(type) {
	case *array.Int8:
		return a.Value(i)
	case *array.Int16:
		return a.Value(i)
	case *array.Int32:
		return a.Value(i)
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return a.Value(i)
	case *array.Uint16:
		return a.Value(i)
	case *array.Uint32:
		return a.Value(i)
	case *array.Uint64:
		return a.Value(i)
	case *array.Float16:
		return a.Value(i).Float32()
	case *array.Float32:
		return a.Value(i)
	case *array.Float64:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit).UTC()
	case *array.Date32:
		return a.Value(i).ToTime().UTC()
	case *array.Date64:
		return a.Value(i).ToTime().UTC()
	case *array.Dictionary:
		dict, idx := a.Dictionary(), a.GetValueIndex(i)
		if dict.IsNull(idx) {
			return nil
		}
		return arrowValue(dict, idx)
	default:
		return arr.ValueStr(i)
	}
}

// forceCategorical retypes a dictionary-encoded column; dictionaries are
// categories regardless of the value type they encode.
func forceCategorical(col *dataset.Column) *dataset.Column {
	return &dataset.Column{
		Name:    col.Name,
		Kind:    dataset.KindCategorical,
		Text:    col.Text,
		Missing: col.Missing,
	}
}
