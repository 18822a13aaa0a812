package fetcher

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// nonContentSelectors lists elements stripped before any text is collected.
const nonContentSelectors = "script, style, noscript, template"

// DefaultSelectors are tried in order; the first match wins even when it holds no text.
var DefaultSelectors = []string{"main", "article", "div.content"}

// SelectorExtractor picks the first matching content region and falls back to
// the whole page text.
type SelectorExtractor struct {
	selectors []string
}

// NewSelectorExtractor uses DefaultSelectors unless others are given.
func NewSelectorExtractor(selectors ...string) *SelectorExtractor {
	if len(selectors) == 0 {
		selectors = DefaultSelectors
	}
	return &SelectorExtractor{selectors: selectors}
}

// Extract implements ports.Extractor.
func (e *SelectorExtractor) Extract(_ string, body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find(nonContentSelectors).Remove()

	for _, selector := range e.selectors {
		if region := doc.Find(selector).First(); region.Length() > 0 {
			return collectText(region), nil
		}
	}
	return collectText(doc.Selection), nil
}

// collectText joins every non-blank text node, trimmed, one per line.
func collectText(sel *goquery.Selection) string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return strings.Join(lines, "\n")
}

var _ ports.Extractor = (*SelectorExtractor)(nil)
