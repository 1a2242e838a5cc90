package object

import (
	"context"
	"io"
)

// ObjectStore saves and retrieves uploaded documents and their derived text.
// Keys are namespaced by a hash of the owning session.
type ObjectStore interface {
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// Delete removes one object. A missing key is not an error.
	Delete(ctx context.Context, storageKey string) error
	// DeleteOwner removes every object stored for ownerID. Deleting an
	// owner with no objects is not an error.
	DeleteOwner(ctx context.Context, ownerID string) error
}
