package object

import (
	"context"
	"io"
)

// ObjectStore stages uploaded files until the processing pipeline is done with them.
type ObjectStore interface {
	// Save writes the reader to storage and returns an opaque storage key.
	Save(ctx context.Context, fileName string, r io.Reader) (storageKey string, sizeBytes int64, err error)
	// Path resolves a storage key to a local filesystem path readable by the extractor.
	Path(storageKey string) (string, error)
	// Open opens a stored object for reading.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// Remove deletes a stored object.
	Remove(ctx context.Context, storageKey string) error
}
