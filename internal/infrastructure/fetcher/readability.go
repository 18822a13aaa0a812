package fetcher

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// ReadabilityExtractor scores the page with go-readability and falls back to
// another strategy when no article is found.
type ReadabilityExtractor struct {
	fallback ports.Extractor
}

// NewReadabilityExtractor falls back to the selector strategy when fallback is nil.
func NewReadabilityExtractor(fallback ports.Extractor) *ReadabilityExtractor {
	if fallback == nil {
		fallback = NewSelectorExtractor()
	}
	return &ReadabilityExtractor{fallback: fallback}
}

// Extract implements ports.Extractor.
func (e *ReadabilityExtractor) Extract(pageURL string, body []byte) (string, error) {
	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return e.fallback.Extract(pageURL, body)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return e.fallback.Extract(pageURL, body)
	}
	return text, nil
}

// NewExtractor maps a config name to a strategy.
func NewExtractor(name string) (ports.Extractor, error) {
	switch name {
	case "", "selectors":
		return NewSelectorExtractor(), nil
	case "readability":
		return NewReadabilityExtractor(nil), nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (want selectors or readability)", name)
	}
}

var _ ports.Extractor = (*ReadabilityExtractor)(nil)
