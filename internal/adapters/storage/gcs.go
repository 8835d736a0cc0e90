package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	gcstorage "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GCS stores objects in a Google Cloud Storage bucket.
type GCS struct {
	client *gcstorage.Client
	bucket string
}

func newGCS(ctx context.Context, o options) (*GCS, error) {
	if o.bucket == "" {
		return nil, ErrBucketRequired
	}
	var opts []option.ClientOption
	if o.endpoint != "" {
		// Emulators such as fake-gcs-server take no credentials.
		opts = append(opts, option.WithEndpoint(o.endpoint), option.WithoutAuthentication())
	} else {
		opts = append(opts, option.WithScopes(gcstorage.ScopeReadWrite))
	}
	client, err := gcstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: create gcs client: %w", err)
	}
	return &GCS{client: client, bucket: o.bucket}, nil
}

// Get downloads the object at key.
func (g *GCS) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	r, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, classifyGCS(key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("storage: gcs read %s: %w", key, err)
	}
	return data, nil
}

// Put uploads data to key.
func (g *GCS) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return classifyGCS(key, err)
	}
	if err := w.Close(); err != nil {
		return classifyGCS(key, err)
	}
	return nil
}

func classifyGCS(key string, err error) error {
	if errors.Is(err, gcstorage.ErrObjectNotExist) || errors.Is(err, gcstorage.ErrBucketNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, key, err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s: %w", ErrNotFound, key, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s: %w", ErrAccess, key, err)
		}
	}
	return fmt.Errorf("storage: gcs %s: %w", key, err)
}
