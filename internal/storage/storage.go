// Package storage holds the key/value blob stores the library document is
// persisted in. Every backend stores opaque text under a string key.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates no blob is stored under the requested key.
	ErrNotFound = errors.New("blob not found")
	// ErrEmptyKey indicates the caller supplied a blank key.
	ErrEmptyKey = errors.New("blob key is required")
)

// BlobStore persists text blobs by key.
type BlobStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
