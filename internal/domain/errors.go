package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel kinds matched with errors.Is against the typed errors below.
var (
	ErrNetwork = errors.New("network error")
	ErrCache   = errors.New("cache error")
	ErrBackend = errors.New("backend error")
	ErrInput   = errors.New("input error")
)

// NetworkError covers timeouts, connection failures and non-2xx responses.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	b.WriteString("fetch")
	if e.URL != "" {
		b.WriteString(" ")
		b.WriteString(e.URL)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": unexpected status %d", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// CacheError is a persistence failure. A miss is never reported as a CacheError.
type CacheError struct {
	Op        string
	Namespace string
	Key       string
	Err       error
}

func (e *CacheError) Error() string {
	msg := fmt.Sprintf("cache %s", e.Op)
	if e.Namespace != "" {
		msg += " " + e.Namespace
	}
	if e.Key != "" {
		msg += fmt.Sprintf(" [%s]", e.Key)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CacheError) Unwrap() error { return e.Err }

func (e *CacheError) Is(target error) bool { return target == ErrCache }

// BackendError means the generation backend was unreachable or answered with an error.
type BackendError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	msg := "generation"
	if e.Provider != "" {
		msg += " via " + e.Provider
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BackendError) Unwrap() error { return e.Err }

func (e *BackendError) Is(target error) bool { return target == ErrBackend }

// InputError rejects caller input before any I/O happens.
type InputError struct {
	Op     string
	Reason string
}

func (e *InputError) Error() string {
	if e.Op == "" {
		return e.Reason
	}
	return e.Op + ": " + e.Reason
}

func (e *InputError) Is(target error) bool { return target == ErrInput }

// BatchError reports a batch in which no URL could be fetched.
type BatchError struct {
	Failures map[string]error
}

func (e *BatchError) Error() string {
	urls := make([]string, 0, len(e.Failures))
	for url := range e.Failures {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	parts := make([]string, 0, len(urls))
	for _, url := range urls {
		parts = append(parts, e.Failures[url].Error())
	}
	return fmt.Sprintf("failed to fetch content from any of the %d URLs: %s", len(urls), strings.Join(parts, "; "))
}

// Unwrap exposes every per-URL failure to errors.Is / errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, err := range e.Failures {
		errs = append(errs, err)
	}
	return errs
}
