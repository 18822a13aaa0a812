package kvstore

import (
	"fmt"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/pkg/filesystem"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// Namespaces shared by every backend.
const (
	NamespaceContent = "content"
	NamespaceResults = "results"
)

// Stores pairs the two cache namespaces with whatever must be closed afterwards.
type Stores struct {
	Content ports.KVStore
	Results ports.KVStore
	closer  func() error
}

// Close releases backend resources.
func (s *Stores) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}

// Open builds both namespaces for the configured backend.
func Open(settings domain.CacheSettings) (*Stores, error) {
	switch backend := settings.Backend; backend {
	case "", domain.CacheBackendFile:
		return &Stores{
			Content: NewFileStore(filesystem.ExpandPath(settings.ContentDir)),
			Results: NewFileStore(filesystem.ExpandPath(settings.ResultDir)),
		}, nil
	case domain.CacheBackendBolt:
		db, err := OpenBolt(filesystem.ExpandPath(settings.BoltPath), NamespaceContent, NamespaceResults)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Content: db.Bucket(NamespaceContent),
			Results: db.Bucket(NamespaceResults),
			closer:  db.Close,
		}, nil
	case domain.CacheBackendMemory:
		return &Stores{
			Content: NewMemoryStore(NamespaceContent),
			Results: NewMemoryStore(NamespaceResults),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", backend)
	}
}
