package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/domain"
	"github.com/aussiebroadwan/recipebox/internal/recipebox/store"
	"github.com/aussiebroadwan/recipebox/internal/recipebox/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore("file:" + path + "?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestKV(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, s.Ping(ctx))

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "users", []byte(`[]`)))
		v, err := s.Get(ctx, "users")
		require.NoError(t, err)
		require.Equal(t, `[]`, string(v))
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "user", []byte(`{"id":"1"}`)))
		require.NoError(t, s.Put(ctx, "user", []byte(`{"id":"2"}`)))
		v, err := s.Get(ctx, "user")
		require.NoError(t, err)
		require.Equal(t, `{"id":"2"}`, string(v))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "user"))
		require.NoError(t, s.Delete(ctx, "user"))
		_, err := s.Get(ctx, "user")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestMigrationsAreRepeatable(t *testing.T) {
	s := newStore(t, filepath.Join(t.TempDir(), "twice.db"))
	require.NoError(t, s.ApplyMigrations())
}

func TestInMemoryDSN(t *testing.T) {
	ctx := context.Background()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", string(v))
}

func TestSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	first, err := sqlite.NewStore("file:" + path)
	require.NoError(t, err)
	require.NoError(t, first.ApplyMigrations())

	accounts := []domain.UserAccount{{ID: "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", Username: "alice", Password: "secret1", Name: "alice"}}
	require.NoError(t, store.Registry{KV: first}.Save(ctx, accounts))
	require.NoError(t, first.Close())

	second := newStore(t, path)
	got, err := store.Registry{KV: second}.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, accounts, got)
}
