// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the analyzer to remain independent of specific
// implementations like key-value stores, HTTP clients, or CLI frameworks.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., KVStore, Provider, Fetcher)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.ollamaland/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// KVStore is the persistence seam under both caches. Get reports a miss with
// found=false and a nil error; any error is a storage failure.
// Implementations must be safe for concurrent use.
type KVStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
	// Location describes where entries live (a directory, a db file and bucket, ...).
	Location() string
}

// ContentCache stores fetched documents by URL.
type ContentCache interface {
	Lookup(ctx context.Context, url string) (domain.Document, bool, error)
	Store(ctx context.Context, url string, doc domain.Document) error
}

// ResultCache stores generation results by (content fingerprint, analysis kind).
type ResultCache interface {
	Lookup(ctx context.Context, content string, kind domain.AnalysisKind) (domain.AnalysisResult, bool, error)
	Store(ctx context.Context, content string, kind domain.AnalysisKind, result domain.AnalysisResult) error
}

// Extractor pulls the primary readable text out of a fetched page.
type Extractor interface {
	Extract(pageURL string, body []byte) (string, error)
}

// Fetcher performs one network retrieval. Failures are returned inside the
// outcome, never as a panic or a bare transport error.
type Fetcher interface {
	Fetch(ctx context.Context, url string, maxBytes int) domain.FetchOutcome
}

// ProviderFactory builds generation provider instances based on model definitions.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (Provider, error)
}

// Provider sends role-tagged messages to a generation backend and returns the raw reply.
// Errors are *domain.BackendError.
type Provider interface {
	Name() string
	Model() domain.ModelDefinition
	Generate(ctx context.Context, messages []domain.Message) (string, error)
}

// HistoryRepository records completed analyzer operations.
type HistoryRepository interface {
	Save(record domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
	Path() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
