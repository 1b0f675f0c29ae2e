package ports

import (
	"smartanalyzer/domain/dataset"
)

// DatasetReaderPort turns an uploaded file into a typed dataset. Any failure
// is reported as an UNSUPPORTED_FORMAT or PARSE_FAILURE error.
type DatasetReaderPort interface {
	ReadUpload(up dataset.Upload) (*dataset.Dataset, error)
}
