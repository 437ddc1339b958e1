package sqlite

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/family-budget/internal/blob"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "budget.db")
	s, err := Open(path, zerolog.New(io.Discard))
	require.NoError(t, err)
	return s, path
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	defer s.Close()

	_, err := s.Get(ctx, "family_budget_data")
	assert.True(t, errors.Is(err, blob.ErrNotFound))

	require.NoError(t, s.Put(ctx, "family_budget_data", []byte(`[]`)))
	require.NoError(t, s.Put(ctx, "family_budget_data", []byte(`[{"id":"1"}]`)))

	got, err := s.Get(ctx, "family_budget_data")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))
}

func TestStore_EmptyValue(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	defer s.Close()

	require.NoError(t, s.Put(ctx, "k", nil))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	require.NoError(t, s.Put(ctx, "family_budget_onboarding_done", []byte("true")))
	require.NoError(t, s.Close())

	reopened, err := Open(path, zerolog.New(io.Discard))
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "family_budget_onboarding_done")
	require.NoError(t, err)
	assert.Equal(t, "true", string(got))
}
