package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorExtractorOrder(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "main wins over article",
			html: `<body><article>story</article><main><h1>Title</h1><p>Body</p></main></body>`,
			want: "Title\nBody",
		},
		{
			name: "article when no main",
			html: `<body><div class="content">side</div><article>story</article></body>`,
			want: "story",
		},
		{
			name: "content div when no article",
			html: `<body><div>nav</div><div class="content"><p>one</p><p>two</p></div></body>`,
			want: "one\ntwo",
		},
		{
			name: "whole page fallback",
			html: `<html><head><title>T</title><style>p{}</style></head><body><p>a</p> <p> b </p></body></html>`,
			want: "T\na\nb",
		},
		{
			name: "first match even when empty",
			html: `<body><main></main><article>ignored</article></body>`,
			want: "",
		},
	}
	extractor := NewSelectorExtractor()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractor.Extract("https://example.com", []byte(tc.html))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadabilityFallsBackToSelectors(t *testing.T) {
	extractor := NewReadabilityExtractor(nil)

	got, err := extractor.Extract("https://example.com", []byte(`<article>Hello</article>`))

	require.NoError(t, err)
	assert.Contains(t, got, "Hello")
}

func TestReadabilityExtractsArticle(t *testing.T) {
	paragraph := strings.Repeat("This paragraph carries the real story of the page, with commas, and detail. ", 10)
	page := `<html><head><title>Story</title></head><body>
<div class="sidebar"><a href="/">Home</a><a href="/about">About</a></div>
<div class="post"><p>` + paragraph + `</p><p>` + paragraph + `</p></div>
</body></html>`

	got, err := NewReadabilityExtractor(nil).Extract("https://example.com/story", []byte(page))

	require.NoError(t, err)
	assert.Contains(t, got, "real story of the page")
}

func TestNewExtractor(t *testing.T) {
	e, err := NewExtractor("")
	require.NoError(t, err)
	assert.IsType(t, &SelectorExtractor{}, e)

	e, err = NewExtractor("readability")
	require.NoError(t, err)
	assert.IsType(t, &ReadabilityExtractor{}, e)

	_, err = NewExtractor("magic")
	assert.Error(t, err)
}
