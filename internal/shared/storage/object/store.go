package object

import (
	"context"
	"io"
)

// ArtifactStore defines the contract for reading and writing model artifacts.
type ArtifactStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	Delete(ctx context.Context, key string) error
}
