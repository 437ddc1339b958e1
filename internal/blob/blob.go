// Package blob defines the key/value slot storage the record store persists into.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("blob: not found")

// Store persists opaque values under string keys. Put replaces any existing value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Close() error
}
