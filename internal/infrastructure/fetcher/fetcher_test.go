package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
)

func serveHTML(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchArticleRegion(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, "<html><body><nav>menu</nav><article>Hello</article></body></html>")

	outcome := New().Fetch(context.Background(), srv.URL, domain.DefaultMaxContentSize)

	require.True(t, outcome.OK(), "unexpected failure: %v", outcome.Err)
	assert.Equal(t, "Hello", outcome.Document.Content)
	assert.False(t, outcome.Document.Truncated)
	assert.Equal(t, srv.URL, outcome.Document.URL)
	assert.False(t, outcome.Document.FetchedAt.IsZero())
}

func TestFetchSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<p>ok</p>"))
	}))
	defer srv.Close()

	outcome := New(WithUserAgent("tester/1.0")).Fetch(context.Background(), srv.URL, 0)

	require.True(t, outcome.OK())
	assert.Equal(t, "tester/1.0", gotUA)
}

func TestFetchTruncatesLongContent(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, "<main>"+strings.Repeat("a", 5000)+"</main>")

	outcome := New().Fetch(context.Background(), srv.URL, 1000)

	require.True(t, outcome.OK())
	assert.True(t, outcome.Document.Truncated)
	assert.Equal(t, strings.Repeat("a", 1000)+domain.TruncationMarker, outcome.Document.Content)
}

func TestFetchEmptyExtractionIsSuccess(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, "<html><body><main><script>var x = 1;</script></main></body></html>")

	outcome := New().Fetch(context.Background(), srv.URL, 0)

	require.True(t, outcome.OK())
	assert.Empty(t, outcome.Document.Content)
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := serveHTML(t, http.StatusNotFound, "missing")

	outcome := New().Fetch(context.Background(), srv.URL, 0)

	require.False(t, outcome.OK())
	var netErr *domain.NetworkError
	require.True(t, errors.As(outcome.Err, &netErr))
	assert.Equal(t, http.StatusNotFound, netErr.StatusCode)
	assert.ErrorIs(t, outcome.Err, domain.ErrNetwork)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	outcome := New(WithTimeout(50*time.Millisecond)).Fetch(context.Background(), srv.URL, 0)

	require.False(t, outcome.OK())
	assert.ErrorIs(t, outcome.Err, domain.ErrNetwork)
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	outcome := New().Fetch(context.Background(), url, 0)

	require.False(t, outcome.OK())
	assert.ErrorIs(t, outcome.Err, domain.ErrNetwork)
}

func TestFetchRejectsInvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "ftp://example.com/file", "http://"} {
		outcome := New().Fetch(context.Background(), raw, 0)
		assert.False(t, outcome.OK(), raw)
		assert.ErrorIs(t, outcome.Err, domain.ErrInput, raw)
	}
}

func TestFetchCapsBody(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, "<pre>"+strings.Repeat("b", 4096)+"</pre>")

	outcome := New(WithMaxBodyBytes(100)).Fetch(context.Background(), srv.URL, 0)

	require.True(t, outcome.OK())
	assert.LessOrEqual(t, len(outcome.Document.Content), 100)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		max       int
		want      string
		truncated bool
	}{
		{name: "disabled", text: "hello", max: 0, want: "hello"},
		{name: "fits", text: "hello", max: 5, want: "hello"},
		{name: "cut", text: "hello world", max: 5, want: "hello" + domain.TruncationMarker, truncated: true},
		{name: "rune boundary", text: "héllo", max: 2, want: "h" + domain.TruncationMarker, truncated: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, truncated := Truncate(tc.text, tc.max)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.truncated, truncated)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
