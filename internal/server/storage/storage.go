// Package storage abstracts the object store holding raw audio blobs.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrUploadFailed means the blob write did not complete.
	ErrUploadFailed = errors.New("upload failed")
	// ErrAccessDenied means the store rejected the credentials or policy.
	ErrAccessDenied = errors.New("access denied")
	// ErrBlobNotFound means no object exists under the requested key.
	ErrBlobNotFound = errors.New("blob not found")
)

// BlobStore is a durable blob store addressed by opaque keys.
type BlobStore interface {
	// Put stores size bytes read from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get opens the blob stored under key for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob stored under key.
	Delete(ctx context.Context, key string) error

	// SignedReadURL returns a time-limited URL granting read access to key.
	SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
