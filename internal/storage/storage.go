// Package storage provides the blob stores that hold uploaded images.
// Blobs are addressed by a flat key; keys never contain path separators.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNotFound is returned when a blob does not exist.
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidKey is returned for keys that are empty or look like paths.
	ErrInvalidKey = errors.New("invalid blob key")
)

// Blob stores, retrieves and deletes binary objects by key.
// Delete is idempotent: deleting a missing key is not an error.
type Blob interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ValidateKey rejects keys that could escape the store's namespace
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
