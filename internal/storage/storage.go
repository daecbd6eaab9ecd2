// Package storage handles physical persistence of file bytes, namespaced per
// owner. It has no awareness of catalog metadata; the services layer is the
// only caller allowed to touch both.
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrBlobExists means a generated storage path collided with an existing
	// blob. Generated names are UUIDs so this should never happen; the store
	// refuses to overwrite rather than trusting that assumption.
	ErrBlobExists = errors.New("blob already exists")

	// ErrBlobNotFound means the referenced blob is not present in the store.
	ErrBlobNotFound = errors.New("blob not found")
)

type BlobStore interface {
	// Put writes the full byte stream under an owner-scoped namespace using a
	// collision-free generated name carrying ext, and returns the storage path
	// together with the number of content bytes written. Either the whole
	// stream lands or nothing is left behind.
	Put(ctx context.Context, ownerID string, ext string, reader io.Reader) (string, int64, error)

	// Open returns a reader over the blob's content bytes.
	Open(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes the blob if present and reports whether anything was
	// removed. Deleting an absent blob is not an error.
	Delete(ctx context.Context, storagePath string) (bool, error)

	// Exists reports whether the blob is present.
	Exists(ctx context.Context, storagePath string) (bool, error)

	// Encrypted reports whether this store encrypts blobs at rest.
	Encrypted() bool
}
