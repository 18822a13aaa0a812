package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/pkg/fingerprint"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

const resultNamespace = "results"

type resultRecord struct {
	Key         string              `json:"key"`
	Kind        domain.AnalysisKind `json:"kind"`
	Fingerprint string              `json:"fingerprint"`
	Result      string              `json:"result"`
	Model       string              `json:"model,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ResultCache stores generation results keyed by fingerprint(content || kind).
// Custom queries are never stored or found.
type ResultCache struct {
	store ports.KVStore
}

// NewResultCache wraps store.
func NewResultCache(store ports.KVStore) *ResultCache {
	return &ResultCache{store: store}
}

// ResultKey derives the cache key for a (content, kind) pair.
func ResultKey(content string, kind domain.AnalysisKind) string {
	return fingerprint.Parts(content, string(kind))
}

// Lookup returns the stored result for content and kind.
func (c *ResultCache) Lookup(ctx context.Context, content string, kind domain.AnalysisKind) (domain.AnalysisResult, bool, error) {
	if !kind.Cacheable() {
		return domain.AnalysisResult{}, false, nil
	}
	key := ResultKey(content, kind)
	data, found, err := c.store.Get(ctx, key)
	if err != nil {
		return domain.AnalysisResult{}, false, &domain.CacheError{Op: "read", Namespace: resultNamespace, Key: key, Err: err}
	}
	if !found {
		return domain.AnalysisResult{}, false, nil
	}
	var rec resultRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.AnalysisResult{}, false, &domain.CacheError{Op: "decode", Namespace: resultNamespace, Key: key, Err: err}
	}
	if rec.Kind != kind {
		return domain.AnalysisResult{}, false, nil
	}
	return rec.result(), true, nil
}

// Store persists result for content and kind. Only cacheable kinds are accepted.
func (c *ResultCache) Store(ctx context.Context, content string, kind domain.AnalysisKind, result domain.AnalysisResult) error {
	if !kind.Cacheable() {
		return &domain.InputError{Op: "store result", Reason: "kind " + string(kind) + " is never cached"}
	}
	key := ResultKey(content, kind)
	rec := resultRecord{
		Key:         key,
		Kind:        kind,
		Fingerprint: fingerprint.String(content),
		Result:      result.Result,
		Model:       result.Model,
		CreatedAt:   result.CreatedAt,
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return &domain.CacheError{Op: "encode", Namespace: resultNamespace, Key: key, Err: err}
	}
	if err := c.store.Put(ctx, key, data); err != nil {
		return &domain.CacheError{Op: "write", Namespace: resultNamespace, Key: key, Err: err}
	}
	return nil
}

// Entries lists stored results (best-effort).
func (c *ResultCache) Entries(ctx context.Context) ([]domain.AnalysisResult, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return nil, &domain.CacheError{Op: "list", Namespace: resultNamespace, Err: err}
	}
	results := make([]domain.AnalysisResult, 0, len(keys))
	for _, key := range keys {
		data, found, err := c.store.Get(ctx, key)
		if err != nil || !found {
			continue
		}
		var rec resultRecord
		if err := json.Unmarshal(data, &rec); err == nil {
			results = append(results, rec.result())
		}
	}
	return results, nil
}

// Clear removes every stored result.
func (c *ResultCache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return &domain.CacheError{Op: "clear", Namespace: resultNamespace, Err: err}
	}
	return nil
}

// Location describes where results are persisted.
func (c *ResultCache) Location() string {
	return c.store.Location()
}

func (r resultRecord) result() domain.AnalysisResult {
	return domain.AnalysisResult{
		Kind:        r.Kind,
		Fingerprint: r.Fingerprint,
		Result:      r.Result,
		Model:       r.Model,
		CreatedAt:   r.CreatedAt,
	}
}

var _ ports.ResultCache = (*ResultCache)(nil)
