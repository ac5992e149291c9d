// Package store keeps uploaded spreadsheets, their decoded rows and an
// upload catalog.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the requested object or upload does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidOwner indicates an owner namespace that cannot be used in a key.
var ErrInvalidOwner = errors.New("invalid owner")

// Object describes a stored blob.
type Object struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	// Metadata holds user metadata. List does not populate it.
	Metadata map[string]string
}

// BlobStore is a flat key/value store for uploaded files.
type BlobStore interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error
	Get(ctx context.Context, key string) ([]byte, Object, error)
	Head(ctx context.Context, key string) (Object, error)
	// List returns the objects whose key starts with prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, key string) error
}
