package cache

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/kvstore"
	"github.com/XCodeIsGoldX/ollamaland/internal/pkg/fingerprint"
)

type brokenStore struct {
	*kvstore.MemoryStore
	err error
}

func (b brokenStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, b.err }
func (b brokenStore) Put(context.Context, string, []byte) error         { return b.err }

func TestContentCacheReadYourWrites(t *testing.T) {
	ctx := context.Background()
	c := NewContentCache(kvstore.NewFileStore(filepath.Join(t.TempDir(), "content")))

	_, found, err := c.Lookup(ctx, "http://x/a")
	require.NoError(t, err)
	assert.False(t, found)

	doc := domain.Document{URL: "http://x/a", Content: "Hello", FetchedAt: time.Unix(1700000000, 0).UTC()}
	require.NoError(t, c.Store(ctx, "http://x/a", doc))

	got, found, err := c.Lookup(ctx, "http://x/a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, doc.URL, got.URL)
	assert.Equal(t, doc.Content, got.Content)
	assert.False(t, got.Truncated)
	assert.True(t, doc.FetchedAt.Equal(got.FetchedAt))
}

func TestContentCacheNormalizesURLIdentity(t *testing.T) {
	ctx := context.Background()
	c := NewContentCache(kvstore.NewMemoryStore("content"))

	require.NoError(t, c.Store(ctx, "HTTP://Example.COM/page#intro", domain.Document{Content: "x"}))

	_, found, err := c.Lookup(ctx, "http://example.com/page")
	require.NoError(t, err)
	assert.True(t, found)

	_, found, err = c.Lookup(ctx, "http://example.com/Page")
	require.NoError(t, err)
	assert.False(t, found, "paths are case sensitive")

	assert.Equal(t, ContentKey("http://example.com/page"), ContentKey(" http://example.com/page#top "))
	assert.Len(t, ContentKey("http://example.com/page"), fingerprint.Size)
}

func TestContentCacheRecordIsSelfDescribing(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore("content")
	c := NewContentCache(store)
	require.NoError(t, c.Store(ctx, "http://x/a", domain.Document{Content: "Hello", Truncated: true}))

	raw, found, err := store.Get(ctx, ContentKey("http://x/a"))
	require.NoError(t, err)
	require.True(t, found)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &rec))
	assert.Equal(t, "http://x/a", rec["url"])
	assert.Equal(t, "Hello", rec["content"])
	assert.Equal(t, true, rec["truncated"])
	assert.Equal(t, ContentKey("http://x/a"), rec["key"])
}

func TestContentCacheSurfacesStoreFailures(t *testing.T) {
	ctx := context.Background()
	c := NewContentCache(brokenStore{MemoryStore: kvstore.NewMemoryStore("content"), err: errors.New("disk gone")})

	_, found, err := c.Lookup(ctx, "http://x/a")
	assert.False(t, found)
	assert.ErrorIs(t, err, domain.ErrCache)

	err = c.Store(ctx, "http://x/a", domain.Document{Content: "x"})
	var cacheErr *domain.CacheError
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, "write", cacheErr.Op)
}

func TestContentCacheCorruptRecordIsCacheError(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore("content")
	require.NoError(t, store.Put(ctx, ContentKey("http://x/a"), []byte("{not json")))

	_, found, err := NewContentCache(store).Lookup(ctx, "http://x/a")
	assert.False(t, found)
	var cacheErr *domain.CacheError
	require.ErrorAs(t, err, &cacheErr)
	assert.Equal(t, "decode", cacheErr.Op)
}

func TestContentCacheEntries(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore("content")
	c := NewContentCache(store)
	require.NoError(t, c.Store(ctx, "http://x/a", domain.Document{Content: "a"}))
	require.NoError(t, c.Store(ctx, "http://x/b", domain.Document{Content: "b"}))
	require.NoError(t, store.Put(ctx, "garbage", []byte("nope")))

	docs, err := c.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	require.NoError(t, c.Clear(ctx))
	docs, err = c.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestResultCacheKeyedByContentAndKind(t *testing.T) {
	ctx := context.Background()
	c := NewResultCache(kvstore.NewMemoryStore("results"))

	require.NoError(t, c.Store(ctx, "some text", domain.KindSummarize, domain.AnalysisResult{Result: "short", Model: "llama2"}))

	got, found, err := c.Lookup(ctx, "some text", domain.KindSummarize)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "short", got.Result)
	assert.Equal(t, domain.KindSummarize, got.Kind)
	assert.Equal(t, fingerprint.String("some text"), got.Fingerprint)
	assert.False(t, got.CreatedAt.IsZero())

	_, found, err = c.Lookup(ctx, "some text", domain.KindKeywords)
	require.NoError(t, err)
	assert.False(t, found, "different kind must miss")

	_, found, err = c.Lookup(ctx, "other text", domain.KindSummarize)
	require.NoError(t, err)
	assert.False(t, found, "different content must miss")
}

func TestResultCacheNeverStoresCustom(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore("results")
	c := NewResultCache(store)

	err := c.Store(ctx, "text", domain.KindCustom, domain.AnalysisResult{Result: "answer"})
	assert.ErrorIs(t, err, domain.ErrInput)
	assert.Zero(t, store.Len())

	_, found, err := c.Lookup(ctx, "text", domain.KindCustom)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResultCacheSurfacesStoreFailures(t *testing.T) {
	c := NewResultCache(brokenStore{MemoryStore: kvstore.NewMemoryStore("results"), err: errors.New("io")})
	_, _, err := c.Lookup(context.Background(), "text", domain.KindSentiment)
	assert.ErrorIs(t, err, domain.ErrCache)
}
