package ports

import (
	"context"

	"smartanalyzer/domain/dataset"

	"github.com/google/uuid"
)

// UploadRepository holds uploaded files between interactions. Only the raw
// upload is kept; every derived result is recomputed on each request.
type UploadRepository interface {
	// SaveUpload stores an upload and returns its session id
	SaveUpload(ctx context.Context, up dataset.Upload) (uuid.UUID, error)

	// GetUpload returns the upload for a session, refreshing its expiry
	GetUpload(ctx context.Context, sessionID uuid.UUID) (*dataset.Upload, error)

	// DeleteUpload forgets a session
	DeleteUpload(ctx context.Context, sessionID uuid.UUID) error

	// Count returns the number of live sessions
	Count() int
}
