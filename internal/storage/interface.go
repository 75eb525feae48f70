package storage

import (
	"context"
	"io"
)

// Store is the object store holding staged attachment files that were
// uploaded ahead of time (for example by the web console).
type Store interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}
