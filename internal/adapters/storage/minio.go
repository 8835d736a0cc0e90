package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Minio stores objects in an S3-compatible server through minio-go.
type Minio struct {
	client *minio.Client
	bucket string
}

func newMinio(o options) (*Minio, error) {
	if o.bucket == "" {
		return nil, ErrBucketRequired
	}
	if o.endpoint == "" {
		return nil, fmt.Errorf("storage: minio endpoint is required")
	}

	// Accept both "host:port" and a full URL.
	endpoint, useSSL := o.endpoint, o.useSSL
	if u, err := url.Parse(o.endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	var creds *credentials.Credentials
	if o.accessKey != "" {
		creds = credentials.NewStaticV4(o.accessKey, o.secretKey, "")
	} else {
		creds = credentials.NewEnvMinio()
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: useSSL,
		Region: o.region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create minio client: %w", err)
	}
	return &Minio{client: client, bucket: o.bucket}, nil
}

// Get downloads the object at key. minio-go defers the request until the
// first read, so not-found surfaces from ReadAll.
func (m *Minio) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyMinio(key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, classifyMinio(key, err)
	}
	return data, nil
}

// Put uploads data to key.
func (m *Minio) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return classifyMinio(key, err)
	}
	return nil
}

func classifyMinio(key string, err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.Code {
		case "NoSuchKey", "NoSuchBucket":
			return fmt.Errorf("%w: %s: %w", ErrNotFound, key, err)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %s: %w", ErrAccess, key, err)
		}
	}
	return fmt.Errorf("storage: minio %s: %w", key, err)
}
