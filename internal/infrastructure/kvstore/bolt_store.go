package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// BoltDB owns one bbolt file; each namespace is a bucket inside it.
type BoltDB struct {
	db   *bbolt.DB
	path string
}

// OpenBolt opens (or creates) the database and ensures the given buckets exist.
func OpenBolt(path string, buckets ...string) (*BoltDB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("bolt path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create bolt dir: %w", err)
	}
	db, err := bbolt.Open(cleanPath, domain.SecureFilePermissions, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltDB{db: db, path: cleanPath}, nil
}

// Close closes the underlying database.
func (b *BoltDB) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Bucket returns a store scoped to one bucket.
func (b *BoltDB) Bucket(name string) *BoltStore {
	return &BoltStore{db: b.db, path: b.path, bucket: []byte(name)}
}

// BoltStore is a KVStore over a single bucket. bbolt serializes writers.
type BoltStore struct {
	db     *bbolt.DB
	path   string
	bucket []byte
}

func (s *BoltStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := s.lookupBucket(tx)
		if err != nil {
			return err
		}
		if payload := bucket.Get([]byte(key)); payload != nil {
			// bbolt memory is only valid inside the transaction.
			value = append([]byte(nil), payload...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, value != nil, nil
}

func (s *BoltStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := s.lookupBucket(tx)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), value)
	})
}

func (s *BoltStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := s.lookupBucket(tx)
		if err != nil {
			return err
		}
		return bucket.Delete([]byte(key))
	})
}

func (s *BoltStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := s.lookupBucket(tx)
		if err != nil {
			return err
		}
		return bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

func (s *BoltStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(s.bucket); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(s.bucket)
		return err
	})
}

func (s *BoltStore) Location() string {
	return fmt.Sprintf("%s#%s", s.path, s.bucket)
}

func (s *BoltStore) lookupBucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	bucket := tx.Bucket(s.bucket)
	if bucket == nil {
		return nil, fmt.Errorf("%s bucket is missing", s.bucket)
	}
	return bucket, nil
}

var _ ports.KVStore = (*BoltStore)(nil)
