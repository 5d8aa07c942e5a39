// Package contentstore abstracts the blob service that holds document
// bytes. The store is addressed by opaque keys and knows nothing about
// document metadata. Implementations are assumed to be at-least-once:
// callers that need durability confirmation check Exists after Put
// rather than trusting the Put return alone.
package contentstore

import (
	"context"
	"errors"
	"io"
)

// ErrKeyNotFound is returned by GetStream (and reported by Exists as
// false) when no object is stored under the key.
var ErrKeyNotFound = errors.New("content key not found")

// Store is the key/value blob interface the rest of the system consumes.
type Store interface {
	// Put stores the bytes under key, overwriting any previous object.
	Put(ctx context.Context, key string, data []byte) error

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the object under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error

	// GetStream opens the object for reading. The caller closes it.
	GetStream(ctx context.Context, key string) (io.ReadCloser, error)
}
