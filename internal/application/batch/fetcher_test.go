package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/pkg/logger"
)

// scriptedFetcher fails for URLs listed in failing and tracks concurrency.
type scriptedFetcher struct {
	failing  map[string]bool
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	mu       sync.Mutex
	calls    map[string]int
}

func (s *scriptedFetcher) Fetch(ctx context.Context, url string) domain.FetchOutcome {
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		seen := s.maxSeen.Load()
		if current <= seen || s.maxSeen.CompareAndSwap(seen, current) {
			break
		}
	}
	s.mu.Lock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[url]++
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.failing[url] {
		return domain.Failure(&domain.NetworkError{URL: url, StatusCode: 500})
	}
	return domain.Success(domain.Document{URL: url, Content: "content of " + url})
}

func TestFetchAllPartialFailure(t *testing.T) {
	source := &scriptedFetcher{failing: map[string]bool{"https://b.example": true}}
	f := New(source, 5, logger.NewNop())

	res, err := f.FetchAll(context.Background(), []string{"https://a.example", "https://b.example"})

	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "content of https://a.example", res.Documents["https://a.example"].Content)
	require.Len(t, res.Failures, 1)
	assert.ErrorIs(t, res.Failures["https://b.example"], domain.ErrNetwork)
}

func TestFetchAllTotalFailure(t *testing.T) {
	source := &scriptedFetcher{failing: map[string]bool{"https://a.example": true, "https://b.example": true}}
	f := New(source, 5, logger.NewNop())

	res, err := f.FetchAll(context.Background(), []string{"https://a.example", "https://b.example"})

	var batchErr *domain.BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Len(t, batchErr.Failures, 2)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Empty(t, res.Documents)
}

func TestFetchAllEmpty(t *testing.T) {
	f := New(&scriptedFetcher{}, 5, logger.NewNop())

	_, err := f.FetchAll(context.Background(), []string{" ", ""})

	assert.ErrorIs(t, err, domain.ErrInput)
}

func TestFetchAllDedupes(t *testing.T) {
	source := &scriptedFetcher{}
	f := New(source, 5, logger.NewNop())

	res, err := f.FetchAll(context.Background(), []string{"https://a.example", "https://a.example", " https://a.example "})

	require.NoError(t, err)
	assert.Len(t, res.Documents, 1)
	assert.Equal(t, 1, source.calls["https://a.example"])
}

func TestFetchAllRespectsBound(t *testing.T) {
	source := &scriptedFetcher{delay: 20 * time.Millisecond}
	f := New(source, 3, logger.NewNop())

	urls := make([]string, 12)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://site%d.example", i)
	}
	res, err := f.FetchAll(context.Background(), urls)

	require.NoError(t, err)
	assert.Len(t, res.Documents, 12)
	assert.LessOrEqual(t, int(source.maxSeen.Load()), 3)
	assert.Greater(t, int(source.maxSeen.Load()), 1)
}

func TestFetchAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := New(&scriptedFetcher{}, 2, logger.NewNop())

	res, err := f.FetchAll(ctx, []string{"https://a.example", "https://b.example"})

	require.Error(t, err)
	assert.Len(t, res.Failures, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDefaultBound(t *testing.T) {
	assert.Equal(t, domain.DefaultConcurrency, New(&scriptedFetcher{}, 0, logger.NewNop()).Bound())
}

func TestFetchFuncAdapter(t *testing.T) {
	fn := FetchFunc(func(_ context.Context, url string) domain.FetchOutcome {
		return domain.Success(domain.Document{URL: url})
	})
	f := New(fn, 1, logger.NewNop())

	res, err := f.FetchAll(context.Background(), []string{"https://a.example"})

	require.NoError(t, err)
	assert.Contains(t, res.Documents, "https://a.example")
}
