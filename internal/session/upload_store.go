package session

import (
	"context"
	"time"

	"smartanalyzer/domain/dataset"
	"smartanalyzer/internal"
	"smartanalyzer/internal/errors"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// UploadStore keeps uploads in memory for a sliding TTL
type UploadStore struct {
	cache  *cache.Cache
	ttl    time.Duration
	logger *internal.Logger
}

// NewUploadStore creates a store whose entries expire ttl after their last use
func NewUploadStore(ttl time.Duration, logger *internal.Logger) *UploadStore {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	cleanup := ttl / 2
	if cleanup < time.Second {
		cleanup = time.Second
	}
	s := &UploadStore{
		cache:  cache.New(ttl, cleanup),
		ttl:    ttl,
		logger: logger.Named("session"),
	}
	s.cache.OnEvicted(func(key string, _ interface{}) {
		s.logger.Debug("[UploadStore] Session %s expired", key)
	})
	return s
}

// SaveUpload stores a copy of up under a fresh session id
func (s *UploadStore) SaveUpload(ctx context.Context, up dataset.Upload) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if up.Filename == "" {
		return uuid.Nil, errors.InvalidInput("upload has no file name")
	}

	id := uuid.New()
	stored := dataset.Upload{Filename: up.Filename, Data: append([]byte(nil), up.Data...)}
	s.cache.Set(id.String(), &stored, cache.DefaultExpiration)
	s.logger.Info("[UploadStore] Stored %s (%d bytes) as session %s", up.Filename, up.Size(), id)
	return id, nil
}

// GetUpload returns the upload for sessionID and restarts its TTL
func (s *UploadStore) GetUpload(ctx context.Context, sessionID uuid.UUID) (*dataset.Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x, found := s.cache.Get(sessionID.String())
	if !found {
		return nil, errors.NotFound("session " + sessionID.String())
	}
	up := x.(*dataset.Upload)
	s.cache.Set(sessionID.String(), up, cache.DefaultExpiration)
	return up, nil
}

// DeleteUpload removes a session; unknown ids are ignored
func (s *UploadStore) DeleteUpload(ctx context.Context, sessionID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Delete(sessionID.String())
	return nil
}

// Count returns the number of stored sessions, including expired ones not yet purged
func (s *UploadStore) Count() int {
	return s.cache.ItemCount()
}

// TTL returns the sliding expiry
func (s *UploadStore) TTL() time.Duration {
	return s.ttl
}
