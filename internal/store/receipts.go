package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const receiptPrefix = "receipts/"

// SaveReceiptImage stores a normalized JPEG receipt and returns its key.
// Unlike slot writes, failures are returned: the caller cannot scan an image
// it could not store.
func (s *Store) SaveReceiptImage(ctx context.Context, jpeg []byte) (string, error) {
	key := receiptPrefix + uuid.New().String() + ".jpg"
	if err := s.blobs.Put(ctx, key, jpeg); err != nil {
		return "", fmt.Errorf("save receipt image: %w", err)
	}
	s.log.Debug().Str("key", key).Int("bytes", len(jpeg)).Msg("Receipt image stored")
	return key, nil
}

// ReceiptImage loads an image stored by SaveReceiptImage.
func (s *Store) ReceiptImage(ctx context.Context, key string) ([]byte, error) {
	if !strings.HasPrefix(key, receiptPrefix) {
		return nil, fmt.Errorf("not a receipt key: %q", key)
	}
	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load receipt image: %w", err)
	}
	return data, nil
}
