package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when a key has no stored object.
var ErrObjectNotFound = errors.New("object not found")

// Storage stores binary objects under slash-separated keys.
type Storage interface {
	// Save writes content under key, replacing any previous object.
	Save(ctx context.Context, key string, content io.Reader) error

	// Open returns a reader for the object stored under key.
	// The caller must close it. Missing keys yield ErrObjectNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
