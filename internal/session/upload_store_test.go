package session

import (
	"context"
	"testing"
	"time"

	"smartanalyzer/domain/dataset"
	"smartanalyzer/internal/errors"
	"smartanalyzer/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.UploadRepository = (*UploadStore)(nil)

func TestUploadStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewUploadStore(time.Minute, nil)

	data := []byte("a,b\n1,2\n")
	id, err := store.SaveUpload(ctx, dataset.Upload{Filename: "t.csv", Data: data})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, 1, store.Count())

	// the stored bytes are a copy
	data[0] = 'z'

	up, err := store.GetUpload(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "t.csv", up.Filename)
	assert.Equal(t, "a,b\n1,2\n", string(up.Data))

	require.NoError(t, store.DeleteUpload(ctx, id))
	_, err = store.GetUpload(ctx, id)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestUploadStore_UnknownSession(t *testing.T) {
	store := NewUploadStore(time.Minute, nil)
	_, err := store.GetUpload(context.Background(), uuid.New())
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}

func TestUploadStore_RejectsNamelessUpload(t *testing.T) {
	store := NewUploadStore(time.Minute, nil)
	_, err := store.SaveUpload(context.Background(), dataset.Upload{Data: []byte("x")})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestUploadStore_Expires(t *testing.T) {
	store := NewUploadStore(50*time.Millisecond, nil)
	id, err := store.SaveUpload(context.Background(), dataset.Upload{Filename: "t.csv"})
	require.NoError(t, err)

	time.Sleep(120 * time.Millisecond)
	_, err = store.GetUpload(context.Background(), id)
	assert.Error(t, err)
}

func TestUploadStore_CancelledContext(t *testing.T) {
	store := NewUploadStore(time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.SaveUpload(ctx, dataset.Upload{Filename: "t.csv"})
	assert.ErrorIs(t, err, context.Canceled)
}
