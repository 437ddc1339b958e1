// Command migrate prepares storage for the budget service. It applies the
// SQLite schema migrations and can copy the record slots from the configured
// backend to another one.
package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"flag"
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/rs/zerolog"

	"github.com/dvloznov/family-budget/internal/blob"
	"github.com/dvloznov/family-budget/internal/blob/backend"
	"github.com/dvloznov/family-budget/internal/blob/sqlite"
	"github.com/dvloznov/family-budget/internal/config"
	"github.com/dvloznov/family-budget/internal/logger"
	"github.com/dvloznov/family-budget/internal/store"
)

// slotKeys are copied in this order.
var slotKeys = []string{
	store.KeySettings,
	store.KeyCategories,
	store.KeyOnboardingDone,
	store.KeyTransactions,
}

var (
	configPath = flag.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML config file")
	copyTo     = flag.String("copy-to", "", "Copy record slots to this backend (memory, sqlite, gcs, s3)")
	targetDB   = flag.String("target-sqlite", "", "SQLite path when copying to sqlite")
	targetBkt  = flag.String("target-bucket", "", "Bucket when copying to gcs or s3")
	targetPfx  = flag.String("target-prefix", "", "Object prefix when copying to gcs or s3")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.NewWithLevel(cfg.LogLevel)
	ctx := context.Background()

	if cfg.Storage.Backend == config.BackendSQLite {
		if err := sqlite.RunMigrations(cfg.Storage.SQLitePath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.Storage.SQLitePath).Msg("Failed to apply migrations")
		}
		log.Info().Str("path", cfg.Storage.SQLitePath).Msg("SQLite schema is up to date")
	}

	if *copyTo == "" {
		return
	}

	target, err := targetStorage(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build target storage config")
	}
	if target == cfg.Storage {
		log.Fatal().Msg("Error: source and target storage are the same")
	}

	src, err := backend.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open source storage")
	}
	defer src.Close()

	dst, err := backend.Open(ctx, target, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open target storage")
	}
	defer dst.Close()

	copied, err := copySlots(ctx, src, dst, slotKeys, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Copy failed")
	}
	log.Info().Int("slots", copied).Str("from", cfg.Storage.Backend).Str("to", target.Backend).Msg("Copy completed")
}

// targetStorage builds the copy target from the -target flags. Unset flags
// fall back to the source storage settings.
func targetStorage(source config.StorageConfig) (config.StorageConfig, error) {
	target := config.StorageConfig{
		Backend:    *copyTo,
		SQLitePath: *targetDB,
		Bucket:     *targetBkt,
		Prefix:     *targetPfx,
	}
	if err := mergo.Merge(&target, source); err != nil {
		return target, err
	}
	return target, nil
}

// copySlots copies every present key from src to dst and verifies the
// written bytes by checksum. Missing keys are skipped.
func copySlots(ctx context.Context, src, dst blob.Store, keys []string, log zerolog.Logger) (int, error) {
	copied := 0
	for _, key := range keys {
		data, err := src.Get(ctx, key)
		if errors.Is(err, blob.ErrNotFound) {
			log.Info().Str("key", key).Msg("  [SKIP] not present")
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("read %s: %w", key, err)
		}

		if err := dst.Put(ctx, key, data); err != nil {
			return copied, fmt.Errorf("write %s: %w", key, err)
		}

		written, err := dst.Get(ctx, key)
		if err != nil {
			return copied, fmt.Errorf("verify %s: %w", key, err)
		}
		if checksum(written) != checksum(data) {
			return copied, fmt.Errorf("verify %s: checksum mismatch", key)
		}

		log.Info().Str("key", key).Int("bytes", len(data)).Str("checksum", checksum(data)[:12]).Msg("  [OK]")
		copied++
	}
	return copied, nil
}

func checksum(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
