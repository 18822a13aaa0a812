package domain

import (
	"errors"
	"time"
)

// TruncationMarker is appended to content cut at the configured size.
const TruncationMarker = "... (content truncated)"

// Document is fetched page text as stored in the content cache.
// It is never modified after the first successful store.
type Document struct {
	URL       string    `json:"url"`
	Content   string    `json:"content"`
	Truncated bool      `json:"truncated"`
	FetchedAt time.Time `json:"fetched_at"`
}

// FetchOutcome is either a fetched document or the reason the fetch failed.
// Build it with Success or Failure; exactly one arm is set.
type FetchOutcome struct {
	Document *Document
	Err      error
}

// Success wraps a fetched document.
func Success(doc Document) FetchOutcome {
	return FetchOutcome{Document: &doc}
}

// Failure wraps a fetch error. A nil error is replaced with a generic network error.
func Failure(err error) FetchOutcome {
	if err == nil {
		err = &NetworkError{Err: errors.New("fetch failed without detail")}
	}
	return FetchOutcome{Err: err}
}

// OK reports whether the outcome carries a document.
func (o FetchOutcome) OK() bool {
	return o.Err == nil && o.Document != nil
}

// Unpack returns the document and error arms as a Go pair.
func (o FetchOutcome) Unpack() (Document, error) {
	if o.OK() {
		return *o.Document, nil
	}
	if o.Err == nil {
		return Document{}, &NetworkError{Err: errors.New("empty fetch outcome")}
	}
	return Document{}, o.Err
}
