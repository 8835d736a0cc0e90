// Package storage reads and writes pipeline tables as objects in a local
// directory, S3, MinIO or Google Cloud Storage.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rinklabs/contractcomps/pkg/metrics"
)

// Backend names accepted by Open.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendMinio = "minio"
	BackendGCS   = "gcs"
)

// ObjectStore provides whole-object access by key.
type ObjectStore interface {
	// Get returns the object body. Missing objects return ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put creates or replaces an object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Open builds the backend named by backend and wraps it with operation
// metrics.
func Open(ctx context.Context, backend string, opts ...Option) (ObjectStore, error) {
	o := options{root: "data"}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		store ObjectStore
		err   error
	)
	switch strings.ToLower(backend) {
	case BackendLocal, "":
		backend = BackendLocal
		store, err = NewLocal(o.root)
	case BackendS3:
		store, err = newS3(ctx, o)
	case BackendMinio:
		store, err = newMinio(o)
	case BackendGCS:
		store, err = newGCS(ctx, o)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(backend, store), nil
}

// Instrument records latency and errors of every call on store.
func Instrument(backend string, store ObjectStore) ObjectStore {
	return &instrumented{backend: backend, next: store}
}

type instrumented struct {
	backend string
	next    ObjectStore
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := s.next.Get(ctx, key)
	metrics.RecordStorageOperation(s.backend, "get", time.Since(start), err)
	return data, err
}

func (s *instrumented) Put(ctx context.Context, key string, data []byte, contentType string) error {
	start := time.Now()
	err := s.next.Put(ctx, key, data, contentType)
	metrics.RecordStorageOperation(s.backend, "put", time.Since(start), err)
	return err
}

// ContentType guesses a content type from the key extension.
func ContentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".csv"):
		return "text/csv"
	case strings.HasSuffix(key, ".json"):
		return "application/json"
	case strings.HasSuffix(key, ".parquet"):
		return "application/vnd.apache.parquet"
	default:
		return "application/octet-stream"
	}
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrKeyRequired
	}
	return nil
}
