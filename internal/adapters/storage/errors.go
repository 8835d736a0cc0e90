package storage

import "errors"

// Sentinel kinds for object storage errors. Backends classify SDK errors
// into these so callers can use errors.Is regardless of provider.
var (
	ErrNotFound       = errors.New("object not found")
	ErrAccess         = errors.New("object access denied")
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrBucketRequired = errors.New("bucket is required")
	ErrKeyRequired    = errors.New("object key is required")
)
