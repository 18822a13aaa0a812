// Package cache implements the content and result caches on top of a ports.KVStore.
//
// Every record is self-describing JSON carrying its key material, so an entry
// can be traced back to its URL or (fingerprint, kind) without an index.
package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/pkg/fingerprint"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

const contentNamespace = "content"

type contentRecord struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Content   string    `json:"content"`
	Truncated bool      `json:"truncated"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ContentCache stores fetched documents keyed by URL identity.
type ContentCache struct {
	store ports.KVStore
}

// NewContentCache wraps store.
func NewContentCache(store ports.KVStore) *ContentCache {
	return &ContentCache{store: store}
}

// ContentKey derives the cache key for a URL.
func ContentKey(rawURL string) string {
	return fingerprint.String(NormalizeURL(rawURL))
}

// NormalizeURL lowercases scheme and host and drops the fragment, which never
// reaches the server. Unparseable input is only trimmed.
func NormalizeURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return trimmed
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// Lookup returns the stored document for rawURL. It never touches the network.
func (c *ContentCache) Lookup(ctx context.Context, rawURL string) (domain.Document, bool, error) {
	key := ContentKey(rawURL)
	data, found, err := c.store.Get(ctx, key)
	if err != nil {
		return domain.Document{}, false, &domain.CacheError{Op: "read", Namespace: contentNamespace, Key: key, Err: err}
	}
	if !found {
		return domain.Document{}, false, nil
	}
	var rec contentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Document{}, false, &domain.CacheError{Op: "decode", Namespace: contentNamespace, Key: key, Err: err}
	}
	if NormalizeURL(rec.URL) != NormalizeURL(rawURL) {
		return domain.Document{}, false, nil
	}
	return rec.document(), true, nil
}

// Store persists doc under rawURL, replacing any previous entry.
func (c *ContentCache) Store(ctx context.Context, rawURL string, doc domain.Document) error {
	key := ContentKey(rawURL)
	rec := contentRecord{
		Key:       key,
		URL:       rawURL,
		Content:   doc.Content,
		Truncated: doc.Truncated,
		FetchedAt: doc.FetchedAt,
	}
	if rec.FetchedAt.IsZero() {
		rec.FetchedAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return &domain.CacheError{Op: "encode", Namespace: contentNamespace, Key: key, Err: err}
	}
	if err := c.store.Put(ctx, key, data); err != nil {
		return &domain.CacheError{Op: "write", Namespace: contentNamespace, Key: key, Err: err}
	}
	return nil
}

// Entries lists stored documents (best-effort: unreadable records are skipped).
func (c *ContentCache) Entries(ctx context.Context) ([]domain.Document, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return nil, &domain.CacheError{Op: "list", Namespace: contentNamespace, Err: err}
	}
	docs := make([]domain.Document, 0, len(keys))
	for _, key := range keys {
		data, found, err := c.store.Get(ctx, key)
		if err != nil || !found {
			continue
		}
		var rec contentRecord
		if err := json.Unmarshal(data, &rec); err == nil {
			docs = append(docs, rec.document())
		}
	}
	return docs, nil
}

// Clear removes every stored document.
func (c *ContentCache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return &domain.CacheError{Op: "clear", Namespace: contentNamespace, Err: err}
	}
	return nil
}

// Location describes where documents are persisted.
func (c *ContentCache) Location() string {
	return c.store.Location()
}

func (r contentRecord) document() domain.Document {
	return domain.Document{
		URL:       r.URL,
		Content:   r.Content,
		Truncated: r.Truncated,
		FetchedAt: r.FetchedAt,
	}
}

var _ ports.ContentCache = (*ContentCache)(nil)
