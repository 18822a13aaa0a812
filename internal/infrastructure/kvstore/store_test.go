package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

type storeFactory func(t *testing.T) ports.KVStore

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"file": func(t *testing.T) ports.KVStore {
			return NewFileStore(filepath.Join(t.TempDir(), "content"))
		},
		"bolt": func(t *testing.T) ports.KVStore {
			db, err := OpenBolt(filepath.Join(t.TempDir(), "cache.db"), NamespaceContent)
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })
			return db.Bucket(NamespaceContent)
		},
		"memory": func(t *testing.T) ports.KVStore {
			return NewMemoryStore(NamespaceContent)
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			_, found, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found, "miss must not be an error")

			require.NoError(t, store.Put(ctx, "k1", []byte(`{"v":1}`)))
			value, found, err := store.Get(ctx, "k1")
			require.NoError(t, err)
			require.True(t, found)
			assert.JSONEq(t, `{"v":1}`, string(value))

			require.NoError(t, store.Put(ctx, "k1", []byte(`{"v":2}`)))
			value, _, err = store.Get(ctx, "k1")
			require.NoError(t, err)
			assert.JSONEq(t, `{"v":2}`, string(value), "last writer wins")

			require.NoError(t, store.Put(ctx, "k0", []byte(`{}`)))
			keys, err := store.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"k0", "k1"}, keys)

			require.NoError(t, store.Delete(ctx, "k0"))
			require.NoError(t, store.Delete(ctx, "never-there"))

			require.NoError(t, store.Clear(ctx))
			keys, err = store.Keys(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys)

			assert.NotEmpty(t, store.Location())
		})
	}
}

func TestStoreRejectsUnsafeKeys(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			for _, key := range []string{"", "  ", "../escape", `a\b`, ".."} {
				assert.Error(t, store.Put(context.Background(), key, []byte("x")), "key %q", key)
			}
		})
	}
}

func TestStoreConcurrentWriters(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					payload := []byte(fmt.Sprintf(`{"writer":%d}`, i))
					assert.NoError(t, store.Put(ctx, "shared", payload))
					assert.NoError(t, store.Put(ctx, fmt.Sprintf("own-%02d", i), payload))
					_, _, err := store.Get(ctx, "shared")
					assert.NoError(t, err)
				}(i)
			}
			wg.Wait()

			value, found, err := store.Get(ctx, "shared")
			require.NoError(t, err)
			require.True(t, found)
			assert.Regexp(t, `^\{"writer":\d+\}$`, string(value), "record must be whole")

			keys, err := store.Keys(ctx)
			require.NoError(t, err)
			assert.Len(t, keys, 17)
		})
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			assert.ErrorIs(t, store.Put(ctx, "k", []byte("v")), context.Canceled)
			_, _, err := store.Get(ctx, "k")
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	store := NewFileStore(dir)
	require.NoError(t, store.Put(context.Background(), "abc", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc.json", entries[0].Name())
}

func TestOpenBackends(t *testing.T) {
	tmp := t.TempDir()

	stores, err := Open(domain.CacheSettings{
		Backend:    domain.CacheBackendFile,
		ContentDir: filepath.Join(tmp, "content"),
		ResultDir:  filepath.Join(tmp, "results"),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "content"), stores.Content.Location())
	require.NoError(t, stores.Close())

	stores, err = Open(domain.CacheSettings{Backend: domain.CacheBackendBolt, BoltPath: filepath.Join(tmp, "db", "cache.db")})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, stores.Content.Put(ctx, "same", []byte("content")))
	_, found, err := stores.Results.Get(ctx, "same")
	require.NoError(t, err)
	assert.False(t, found, "namespaces must be independent")
	require.NoError(t, stores.Close())

	stores, err = Open(domain.CacheSettings{Backend: domain.CacheBackendMemory})
	require.NoError(t, err)
	assert.Equal(t, "memory:results", stores.Results.Location())

	_, err = Open(domain.CacheSettings{Backend: "redis"})
	assert.Error(t, err)
}
