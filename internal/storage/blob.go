// Package storage provides the blob-upload capability used for profile
// photos.  Handlers depend on the BlobStore interface and receive a concrete
// implementation at construction time; there is no package-level singleton.
package storage

import "context"

// BlobStore uploads an object and returns its public URL.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}
