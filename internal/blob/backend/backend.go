// Package backend opens the blob store selected by the configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dvloznov/family-budget/internal/blob"
	"github.com/dvloznov/family-budget/internal/blob/gcs"
	"github.com/dvloznov/family-budget/internal/blob/s3"
	"github.com/dvloznov/family-budget/internal/blob/sqlite"
	"github.com/dvloznov/family-budget/internal/config"
)

// Open returns the configured blob store. The caller closes it.
func Open(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (blob.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn().Msg("Using in-memory storage, data is lost on exit")
		return blob.NewMemory(), nil

	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath, log)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil

	case config.BackendGCS:
		store, err := gcs.New(ctx, gcs.Config{
			Bucket:          cfg.Bucket,
			Prefix:          cfg.Prefix,
			CredentialsFile: cfg.GCSCredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("open gcs store: %w", err)
		}
		log.Info().Str("bucket", cfg.Bucket).Str("prefix", cfg.Prefix).Msg("Using GCS storage")
		return store, nil

	case config.BackendS3:
		store, err := s3.New(ctx, s3.Config{
			Bucket:          cfg.Bucket,
			Prefix:          cfg.Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("open s3 store: %w", err)
		}
		log.Info().Str("bucket", cfg.Bucket).Str("prefix", cfg.Prefix).Msg("Using S3 storage")
		return store, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
