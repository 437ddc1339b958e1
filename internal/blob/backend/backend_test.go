package backend

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/family-budget/internal/blob"
	"github.com/dvloznov/family-budget/internal/config"
)

func quiet() zerolog.Logger { return zerolog.New(io.Discard) }

func TestOpen_Memory(t *testing.T) {
	store, err := Open(context.Background(), config.StorageConfig{Backend: config.BackendMemory}, quiet())
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*blob.Memory)
	assert.True(t, ok)
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.StorageConfig{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "nested", "budget.db"),
	}

	store, err := Open(ctx, cfg, quiet())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(ctx, "k", []byte("v")))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestOpen_S3(t *testing.T) {
	store, err := Open(context.Background(), config.StorageConfig{
		Backend:           config.BackendS3,
		Bucket:            "budget",
		S3Region:          "eu-central-1",
		S3Endpoint:        "http://localhost:9000",
		S3AccessKeyID:     "minio",
		S3SecretAccessKey: "minio123",
	}, quiet())
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, config.StorageConfig{Backend: "ftp"}, quiet())
	assert.ErrorContains(t, err, "unknown storage backend")

	_, err = Open(ctx, config.StorageConfig{Backend: config.BackendGCS}, quiet())
	assert.ErrorContains(t, err, "bucket is required")

	_, err = Open(ctx, config.StorageConfig{Backend: config.BackendS3}, quiet())
	assert.ErrorContains(t, err, "bucket is required")
}
