package testctl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"coaching-admin-client/internal/rest"
	"coaching-admin-client/internal/storage"
)

// Staged describes a selected PDF before upload: where its bytes live,
// what the server should call it, and what was known about it at pick
// time. Nothing is transferred until submit.
type Staged struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Resolver turns a staged attachment into an uploadable file part.
// URIs with the s3:// scheme resolve through the object store, anything
// else is treated as a local path.
type Resolver struct {
	store storage.Store
}

func NewResolver(store storage.Store) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) Resolve(ctx context.Context, field string, staged *Staged) (rest.FilePart, error) {
	data, err := r.fetch(ctx, staged.URI)
	if err != nil {
		return rest.FilePart{}, fmt.Errorf("failed to resolve attachment %q: %w", staged.Name, err)
	}

	contentType := staged.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}

	return rest.FilePart{
		Field:       field,
		Name:        staged.Name,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (r *Resolver) fetch(ctx context.Context, uri string) ([]byte, error) {
	if key, ok := strings.CutPrefix(uri, "s3://"); ok {
		if r.store == nil {
			return nil, fmt.Errorf("no object store configured for %q", uri)
		}
		body, err := r.store.Download(ctx, key)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return io.ReadAll(body)
	}
	return os.ReadFile(uri)
}
