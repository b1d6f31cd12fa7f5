package service

import (
	"context"
	"io"
)

// FileStore defines the interface for persisting uploaded binary payloads.
// It returns a stable reference string (a URL path) for each stored file.
// No validation of file content or size is performed at this layer.
type FileStore interface {
	// Save stores the content under a freshly generated name, keeping the
	// extension of the supplied original filename, and returns the public
	// reference for it.
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
}
