package analyzer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/cache"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/fetcher"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/kvstore"
	"github.com/XCodeIsGoldX/ollamaland/internal/pkg/logger"
)

type countingGenerator struct {
	mu      sync.Mutex
	reply   string
	absent  bool
	prompts []string
}

func (g *countingGenerator) Generate(_ context.Context, messages []domain.Message) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, messages[len(messages)-1].Content)
	if g.absent {
		return "", false
	}
	return g.reply, true
}

func (g *countingGenerator) ModelName() string { return "stub-model" }

func (g *countingGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func (g *countingGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.prompts[len(g.prompts)-1]
}

type memoryHistory struct {
	mu      sync.Mutex
	records []domain.HistoryRecord
}

func (h *memoryHistory) Save(rec domain.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	return nil
}

func (h *memoryHistory) Records(int, string) ([]domain.HistoryRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.HistoryRecord(nil), h.records...), nil
}

func (h *memoryHistory) Clear() error { return nil }
func (h *memoryHistory) Path() string { return "memory" }

type fixture struct {
	service   *Service
	generator *countingGenerator
	history   *memoryHistory
	contents  *cache.ContentCache
	results   *cache.ResultCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gen := &countingGenerator{reply: "generated"}
	hist := &memoryHistory{}
	contents := cache.NewContentCache(kvstore.NewMemoryStore("content"))
	results := cache.NewResultCache(kvstore.NewMemoryStore("results"))
	return &fixture{
		service: &Service{
			Fetcher:   fetcher.New(),
			Contents:  contents,
			Results:   results,
			Generator: gen,
			History:   hist,
			Logger:    logger.NewNop(),
			Settings:  Settings{MaxContentSize: domain.DefaultMaxContentSize, Concurrency: 5},
		},
		generator: gen,
		history:   hist,
		contents:  contents,
		results:   results,
	}
}

// countingServer serves body for every path except those in failing, which get a 500.
func countingServer(t *testing.T, body string, failing ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	fail := make(map[string]bool, len(failing))
	for _, path := range failing {
		fail[path] = true
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if fail[r.URL.Path] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{path}", r.URL.Path)))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchIsIdempotent(t *testing.T) {
	f := newFixture(t)
	srv, hits := countingServer(t, "<html><body><article>Hello</article></body></html>")

	first := f.service.Fetch(context.Background(), srv.URL+"/page")
	second := f.service.Fetch(context.Background(), srv.URL+"/page")

	require.True(t, first.OK())
	require.True(t, second.OK())
	assert.Equal(t, "Hello", first.Document.Content)
	assert.Equal(t, first.Document.Content, second.Document.Content)
	assert.Equal(t, int32(1), hits.Load())

	records, _ := f.history.Records(0, "")
	require.Len(t, records, 2)
	assert.False(t, records[0].FromCache)
	assert.True(t, records[1].FromCache)
}

func TestFetchFailureIsNotCached(t *testing.T) {
	f := newFixture(t)
	srv, hits := countingServer(t, "ok", "/broken")

	first := f.service.Fetch(context.Background(), srv.URL+"/broken")
	second := f.service.Fetch(context.Background(), srv.URL+"/broken")

	assert.False(t, first.OK())
	assert.False(t, second.OK())
	assert.ErrorIs(t, first.Err, domain.ErrNetwork)
	assert.Equal(t, int32(2), hits.Load())
	_, found, err := f.contents.Lookup(context.Background(), srv.URL+"/broken")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFetchTruncatesToConfiguredSize(t *testing.T) {
	f := newFixture(t)
	f.service.Settings.MaxContentSize = 10
	srv, _ := countingServer(t, "<main>"+strings.Repeat("x", 50)+"</main>")

	outcome := f.service.Fetch(context.Background(), srv.URL)

	require.True(t, outcome.OK())
	assert.True(t, outcome.Document.Truncated)
	assert.LessOrEqual(t, len(outcome.Document.Content), 10+len(domain.TruncationMarker))
	assert.True(t, strings.HasSuffix(outcome.Document.Content, domain.TruncationMarker))
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	f := newFixture(t)

	first, err := f.service.Analyze(context.Background(), "some page text", domain.KindSummarize)
	require.NoError(t, err)
	second, err := f.service.Analyze(context.Background(), "some page text", domain.KindSummarize)
	require.NoError(t, err)

	assert.Equal(t, "generated", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.generator.calls())
	assert.True(t, strings.HasPrefix(f.generator.lastPrompt(), "Provide a concise summary of the following text:\n\nsome page text"))
}

func TestAnalyzeKindsAreKeyedSeparately(t *testing.T) {
	f := newFixture(t)

	for _, kind := range domain.CacheableKinds {
		_, err := f.service.Analyze(context.Background(), "text", kind)
		require.NoError(t, err)
	}

	assert.Equal(t, len(domain.CacheableKinds), f.generator.calls())
}

func TestAnalyzeAbsentResultIsNotCached(t *testing.T) {
	f := newFixture(t)
	f.generator.absent = true

	_, err := f.service.Analyze(context.Background(), "text", domain.KindKeywords)

	assert.ErrorIs(t, err, domain.ErrBackend)
	assert.ErrorIs(t, err, ErrNoResult)
	_, found, lookupErr := f.results.Lookup(context.Background(), "text", domain.KindKeywords)
	require.NoError(t, lookupErr)
	assert.False(t, found)

	f.generator.absent = false
	got, err := f.service.Analyze(context.Background(), "text", domain.KindKeywords)
	require.NoError(t, err)
	assert.Equal(t, "generated", got)
	assert.Equal(t, 2, f.generator.calls())
}

func TestAnalyzeRejectsInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Analyze(context.Background(), "text", domain.KindCustom)
	assert.ErrorIs(t, err, domain.ErrInput)

	_, err = f.service.Analyze(context.Background(), "text", domain.AnalysisKind("translate"))
	assert.ErrorIs(t, err, domain.ErrInput)

	_, err = f.service.Analyze(context.Background(), "   ", domain.KindSummarize)
	assert.ErrorIs(t, err, domain.ErrInput)

	assert.Zero(t, f.generator.calls())
}

func TestAnalyzeUsesExcerpt(t *testing.T) {
	f := newFixture(t)
	f.service.Settings.ExcerptChars = 5

	_, err := f.service.Analyze(context.Background(), "héllo world", domain.KindSentiment)

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(f.generator.lastPrompt(), "\n\nhéllo..."))
}

func TestAskAlwaysCallsBackend(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 2; i++ {
		got, err := f.service.Ask(context.Background(), "page text", "who wrote this?")
		require.NoError(t, err)
		assert.Equal(t, "generated", got)
	}

	assert.Equal(t, 2, f.generator.calls())
	assert.Equal(t, "Based on the following content, who wrote this?\n\nContent: page text...", f.generator.lastPrompt())
	entries, err := f.results.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAskRequiresQuestion(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Ask(context.Background(), "text", "  ")

	assert.ErrorIs(t, err, domain.ErrInput)
}

func TestComparePartialFailure(t *testing.T) {
	f := newFixture(t)
	srv, _ := countingServer(t, "<article>page {path}</article>", "/c")

	comparison, err := f.service.Compare(context.Background(), []string{srv.URL + "/b", srv.URL + "/a", srv.URL + "/c"})

	require.NoError(t, err)
	assert.Equal(t, "generated", comparison.Result)
	assert.Len(t, comparison.Documents, 2)
	assert.Len(t, comparison.Failures, 1)
	prompt := f.generator.lastPrompt()
	assert.True(t, strings.HasPrefix(prompt, "Compare and contrast the following web pages:\n\n"))
	assert.Less(t, strings.Index(prompt, srv.URL+"/a"), strings.Index(prompt, srv.URL+"/b"))
	assert.NotContains(t, prompt, srv.URL+"/c")
	assert.True(t, strings.HasSuffix(prompt, "unique aspects of each page."))
}

func TestCompareTotalFailure(t *testing.T) {
	f := newFixture(t)
	srv, _ := countingServer(t, "", "/a", "/b")

	_, err := f.service.Compare(context.Background(), []string{srv.URL + "/a", srv.URL + "/b"})

	var batchErr *domain.BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Len(t, batchErr.Failures, 2)
	assert.Zero(t, f.generator.calls())
}

func TestCompareNeedsTwoURLs(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Compare(context.Background(), []string{"https://a.example", "https://a.example"})

	assert.ErrorIs(t, err, domain.ErrInput)
}

func TestCompareUsesContentCache(t *testing.T) {
	f := newFixture(t)
	srv, hits := countingServer(t, "<article>page {path}</article>")
	urls := []string{srv.URL + "/a", srv.URL + "/b"}

	_, err := f.service.Compare(context.Background(), urls)
	require.NoError(t, err)
	_, err = f.service.Compare(context.Background(), urls)
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, 2, f.generator.calls())
}

func TestOrganize(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("second note"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("first note"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.md"), []byte("ignored"), 0o644))

	res, err := f.service.Organize(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, domain.OrganizedNotesFile), res.OutputPath)
	assert.Len(t, res.Files, 2)
	written, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "generated", string(written))
	assert.True(t, strings.HasSuffix(f.generator.lastPrompt(), "Here is the content: first note\n\nsecond note"))

	// the previous output is not read back as a note
	_, err = f.service.Organize(context.Background(), dir)
	require.NoError(t, err)
	assert.NotContains(t, f.generator.lastPrompt(), "generated")
}

func TestOrganizeWithoutNotes(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Organize(context.Background(), t.TempDir())

	assert.ErrorIs(t, err, domain.ErrInput)
}

func TestPromptOverrides(t *testing.T) {
	prompts, err := NewPrompts(map[string]string{"summarize": "TL;DR {{.Excerpt}}"})
	require.NoError(t, err)
	f := newFixture(t)
	f.service.Prompts = prompts

	_, err = f.service.Analyze(context.Background(), "abc", domain.KindSummarize)

	require.NoError(t, err)
	assert.Equal(t, "TL;DR abc", f.generator.lastPrompt())

	_, err = NewPrompts(map[string]string{"summarize": "{{.Broken"})
	assert.Error(t, err)
}

func TestMissingDependencies(t *testing.T) {
	_, err := (&Service{}).Analyze(context.Background(), "x", domain.KindSummarize)
	assert.Error(t, err)
	assert.False(t, (&Service{}).Fetch(context.Background(), "https://example.com").OK())
}
