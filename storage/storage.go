// Package storage provides the object-store abstraction used by store-backed
// targets and external completion checks. Supported backends: local
// filesystem and in-memory (for tests).
package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage defines the interface for object storage operations. Upload is a
// whole-object put: re-uploading the same key with the same content is
// idempotent.
type Storage interface {
	// Upload writes data from reader to the given key. The object becomes
	// visible to Exists/Download only once fully written.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download returns a reader for the object at the given key.
	// The caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object at the given key.
	// Returns nil if the object does not exist.
	Delete(ctx context.Context, key string) error

	// Exists checks whether an object exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)

	// List returns metadata for all objects whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
