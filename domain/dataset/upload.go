package dataset

import (
	"path/filepath"
	"strings"
)

// Upload is a user-supplied file held in memory before ingestion
type Upload struct {
	Filename string
	Data     []byte
}

// Size returns the upload length in bytes
func (u Upload) Size() int64 {
	return int64(len(u.Data))
}

// Extension returns the lower-cased suffix including the dot, e.g. ".csv"
func (u Upload) Extension() string {
	return strings.ToLower(filepath.Ext(u.Filename))
}
