package reader

import (
	"fmt"
	"strings"

	"smartanalyzer/domain/dataset"
)

// normalizeHeaders names blank headers "Unnamed: i" and suffixes repeats
// with ".1", ".2", ... so every column name is unique.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	taken := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		taken[h] = true
		headers[i] = h
	}
	used := make(map[string]bool, len(raw))
	for i, h := range headers {
		if !used[h] {
			used[h] = true
			continue
		}
		n := seen[h]
		candidate := h
		for used[candidate] || (candidate != h && taken[candidate]) {
			n++
			candidate = fmt.Sprintf("%s.%d", h, n)
		}
		seen[h] = n
		used[candidate] = true
		headers[i] = candidate
	}
	return headers
}

// gridToDataset types a header row plus string rows. Short rows are padded
// with missing cells; callers reject long rows when the format requires it.
func gridToDataset(name string, header []string, rows [][]string, opts dataset.InferOptions) (*dataset.Dataset, error) {
	headers := normalizeHeaders(header)
	columns := make([]*dataset.Column, len(headers))
	for c, h := range headers {
		cells := make([]any, len(rows))
		for r, row := range rows {
			if c < len(row) {
				cells[r] = row[c]
			} else {
				cells[r] = nil
			}
		}
		columns[c] = dataset.NewColumn(h, cells, opts)
	}
	return dataset.New(name, columns)
}

// recordsToDataset types rows given as ordered key/value cells, the shape
// produced by record-oriented formats. Keys missing from a row are missing cells.
func recordsToDataset(name string, keys []string, rows []map[string]any, opts func(column string) dataset.InferOptions) (*dataset.Dataset, error) {
	columns := make([]*dataset.Column, len(keys))
	for c, key := range keys {
		cells := make([]any, len(rows))
		for r, row := range rows {
			cells[r] = row[key]
		}
		columns[c] = dataset.NewColumn(key, cells, opts(key))
	}
	return dataset.New(name, columns)
}

// keyOrder accumulates keys in first-seen order
type keyOrder struct {
	keys []string
	seen map[string]bool
}

func newKeyOrder() *keyOrder {
	return &keyOrder{seen: make(map[string]bool)}
}

func (k *keyOrder) add(key string) {
	if !k.seen[key] {
		k.seen[key] = true
		k.keys = append(k.keys, key)
	}
}
