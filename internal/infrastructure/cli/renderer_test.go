package cli

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
)

func TestRenderDocumentPreview(t *testing.T) {
	doc := domain.Document{
		URL:       "https://example.com",
		Content:   strings.Repeat("x", previewChars+10),
		Truncated: true,
		FetchedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	var out bytes.Buffer
	RenderDocument(&out, doc, false)
	assert.Contains(t, out.String(), "URL: https://example.com")
	assert.Contains(t, out.String(), "(truncated)")
	assert.Contains(t, out.String(), strings.Repeat("x", previewChars)+"...")

	out.Reset()
	RenderDocument(&out, doc, true)
	assert.NotContains(t, out.String(), "...")
}

func TestRenderFailuresSortedAndCategorized(t *testing.T) {
	var out bytes.Buffer
	RenderFailures(&out, map[string]error{
		"https://b.example": &domain.NetworkError{URL: "https://b.example", StatusCode: 404},
		"https://a.example": &domain.InputError{Op: "fetch", Reason: "unsupported scheme"},
	})

	text := out.String()
	assert.Less(t, strings.Index(text, "https://a.example"), strings.Index(text, "https://b.example"))
	assert.Contains(t, text, "https://a.example: invalid input: fetch: unsupported scheme")
	assert.Contains(t, text, "https://b.example: network: fetch https://b.example: unexpected status 404")

	out.Reset()
	RenderFailures(&out, nil)
	assert.Empty(t, out.String())
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t, "", describeError(nil))
	assert.Equal(t, "plain", describeError(errors.New("plain")))
	assert.True(t, strings.HasPrefix(describeError(&domain.BackendError{Provider: "ollama"}), "backend: "))
	assert.True(t, strings.HasPrefix(describeError(&domain.CacheError{Op: "read"}), "cache: "))
}

func TestSpinnerRestarts(t *testing.T) {
	var out bytes.Buffer
	s := NewSpinner(&syncWriter{buf: &out})
	s.Start()
	s.Stop()
	s.Start()
	s.Stop()
	s.Stop()
}

// syncWriter serializes writes from the spinner goroutine.
type syncWriter struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}
