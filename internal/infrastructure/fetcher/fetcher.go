// Package fetcher retrieves pages over HTTP and reduces them to their main text.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// HTTPFetcher performs a single GET per call and never caches.
type HTTPFetcher struct {
	httpClient   *http.Client
	extractor    ports.Extractor
	userAgent    string
	maxBodyBytes int64
	now          func() time.Time
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client (tests, proxies).
func WithHTTPClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithExtractor sets the content extraction strategy.
func WithExtractor(e ports.Extractor) Option {
	return func(f *HTTPFetcher) {
		if e != nil {
			f.extractor = e
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodyBytes caps how much of the response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// New creates a fetcher with a 10s timeout and the selector extractor.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		httpClient:   &http.Client{Timeout: domain.DefaultFetchTimeout},
		extractor:    NewSelectorExtractor(),
		userAgent:    domain.DefaultUserAgent,
		maxBodyBytes: domain.DefaultMaxBodyBytes,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves rawURL and returns its extracted text capped at maxBytes
// (0 disables the cap). Every failure is returned as a Failure outcome.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, maxBytes int) domain.FetchOutcome {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return domain.Failure(&domain.InputError{Op: "fetch", Reason: fmt.Sprintf("invalid URL: %s", rawURL)})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.Failure(&domain.NetworkError{URL: rawURL, Err: fmt.Errorf("create request: %w", err)})
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return domain.Failure(&domain.NetworkError{URL: rawURL, Err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.Failure(&domain.NetworkError{URL: rawURL, StatusCode: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return domain.Failure(&domain.NetworkError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)})
	}

	text, err := f.extractor.Extract(rawURL, body)
	if err != nil {
		return domain.Failure(&domain.NetworkError{URL: rawURL, Err: fmt.Errorf("extract content: %w", err)})
	}

	content, truncated := Truncate(text, maxBytes)
	return domain.Success(domain.Document{
		URL:       rawURL,
		Content:   content,
		Truncated: truncated,
		FetchedAt: f.now().UTC(),
	})
}

// Truncate cuts text to at most maxBytes on a rune boundary and appends the
// truncation marker. maxBytes <= 0 leaves text untouched.
func Truncate(text string, maxBytes int) (string, bool) {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return text, false
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + domain.TruncationMarker, true
}

var _ ports.Fetcher = (*HTTPFetcher)(nil)
