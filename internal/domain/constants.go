package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the permission for cache records (rw-r--r--)
	FilePermissions = 0o644
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultFetchTimeout bounds a single page retrieval
	DefaultFetchTimeout = 10 * time.Second
	// DefaultHTTPClientTimeout is the timeout for generation backend requests
	DefaultHTTPClientTimeout = 120 * time.Second
)

// Limit constants
const (
	// DefaultMaxContentSize caps stored page text in bytes
	DefaultMaxContentSize = 1_000_000
	// DefaultMaxBodyBytes caps the raw response body read before extraction
	DefaultMaxBodyBytes = 10 << 20
	// DefaultConcurrency is the number of simultaneous batch fetches
	DefaultConcurrency = 5
	// DefaultExcerptChars is the content prefix sent with analysis prompts
	DefaultExcerptChars = 1000
	// DefaultCompareExcerptChars is the per-URL prefix sent with comparison prompts
	DefaultCompareExcerptChars = 500
	// MinCompareURLs is the smallest URL set a comparison accepts
	MinCompareURLs = 2
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)

// Model configuration constants
const (
	// DefaultModelName is the model entry created on first run
	DefaultModelName = "llama2"
	// DefaultOllamaEndpoint is the native Ollama chat API
	DefaultOllamaEndpoint = "http://localhost:11434/api/chat"
	// DefaultUserAgent identifies page fetches
	DefaultUserAgent = "Mozilla/5.0 (compatible; ollamaland/1.0)"
)

// OrganizedNotesFile is written by the notes organizer.
const OrganizedNotesFile = "organized_notes.txt"

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
