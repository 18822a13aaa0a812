// Package batch fans URL fetches out over a bounded number of goroutines.
package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// URLFetcher retrieves one URL. The analyzer's cache-aware fetch satisfies it.
type URLFetcher interface {
	Fetch(ctx context.Context, url string) domain.FetchOutcome
}

// FetchFunc adapts a function to URLFetcher.
type FetchFunc func(ctx context.Context, url string) domain.FetchOutcome

func (f FetchFunc) Fetch(ctx context.Context, url string) domain.FetchOutcome {
	return f(ctx, url)
}

// Result holds every requested URL in exactly one of the two maps.
type Result struct {
	Documents map[string]domain.Document
	Failures  map[string]error
}

// Fetcher runs at most Bound fetches at once.
type Fetcher struct {
	source URLFetcher
	bound  int
	logger ports.Logger
}

// New creates a batch fetcher. A bound below 1 uses the default of 5.
func New(source URLFetcher, bound int, logger ports.Logger) *Fetcher {
	if bound < 1 {
		bound = domain.DefaultConcurrency
	}
	return &Fetcher{source: source, bound: bound, logger: logger}
}

// Bound is the maximum number of fetches in flight.
func (f *Fetcher) Bound() int {
	return f.bound
}

// FetchAll fetches every distinct URL. It fails only when no URL succeeded, with a
// *domain.BatchError carrying each failure, or when the set is empty.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) (Result, error) {
	unique := dedupe(urls)
	if len(unique) == 0 {
		return Result{}, &domain.InputError{Op: "batch fetch", Reason: "no URLs given"}
	}

	result := Result{
		Documents: make(map[string]domain.Document, len(unique)),
		Failures:  make(map[string]error),
	}
	var mu sync.Mutex

	// Fetch errors are collected, not returned, so one failure never cancels the rest.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.bound)

	for _, url := range unique {
		if gctx.Err() != nil {
			mu.Lock()
			result.Failures[url] = &domain.NetworkError{URL: url, Err: fmt.Errorf("not dispatched: %w", gctx.Err())}
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			outcome := f.source.Fetch(gctx, url)
			doc, err := outcome.Unpack()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures[url] = err
				f.logger.Warn("batch fetch failed", map[string]interface{}{
					"url":   url,
					"error": err.Error(),
				})
				return nil
			}
			result.Documents[url] = doc
			return nil
		})
	}
	_ = g.Wait()

	f.logger.Debug("batch fetch finished", map[string]interface{}{
		"requested": len(unique),
		"succeeded": len(result.Documents),
		"failed":    len(result.Failures),
	})

	if len(result.Documents) == 0 {
		return result, &domain.BatchError{Failures: result.Failures}
	}
	return result, nil
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}
	return out
}
