package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
)

// previewChars bounds how much page text `fetch` prints without --full.
const previewChars = 500

// RenderDocument prints fetched page text in a friendly, ASCII-only format.
func RenderDocument(out io.Writer, doc domain.Document, full bool) {
	fmt.Fprintf(out, "URL: %s\n", doc.URL)
	if !doc.FetchedAt.IsZero() {
		fmt.Fprintf(out, "Fetched: %s\n", doc.FetchedAt.Local().Format(domain.TimestampFormat))
	}
	fmt.Fprintf(out, "Length: %d bytes", len(doc.Content))
	if doc.Truncated {
		fmt.Fprint(out, " (truncated)")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)

	content := doc.Content
	if !full {
		content = preview(content, previewChars)
	}
	fmt.Fprintln(out, content)
}

// RenderResult prints a titled generation result.
func RenderResult(out io.Writer, title, body string) {
	fmt.Fprintf(out, "\n%s:\n", title)
	fmt.Fprintln(out, strings.Repeat("-", len(title)+1))
	fmt.Fprintln(out, strings.TrimSpace(body))
}

// RenderFailures lists per-URL fetch failures in URL order.
func RenderFailures(out io.Writer, failures map[string]error) {
	if len(failures) == 0 {
		return
	}
	urls := make([]string, 0, len(failures))
	for url := range failures {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	fmt.Fprintln(out, "Skipped URLs:")
	for _, url := range urls {
		fmt.Fprintf(out, " - %s: %s\n", url, describeError(failures[url]))
	}
}

// describeError prefixes an error with its category for terminal output.
func describeError(err error) string {
	var input *domain.InputError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &input):
		return "invalid input: " + err.Error()
	case errors.Is(err, domain.ErrNetwork):
		return "network: " + err.Error()
	case errors.Is(err, domain.ErrCache):
		return "cache: " + err.Error()
	case errors.Is(err, domain.ErrBackend):
		return "backend: " + err.Error()
	default:
		return err.Error()
	}
}

func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
