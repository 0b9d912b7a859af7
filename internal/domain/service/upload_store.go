package service

import (
	"context"
	"time"
)

// UploadStore resolves opaque image references to retrievable URLs. The core
// persists only the reference; blob bytes and raw upload handling live
// entirely outside it.
type UploadStore interface {
	// ResolveURL returns a time-limited URL for a stored image reference.
	ResolveURL(ctx context.Context, imageRef string, expiry time.Duration) (string, error)

	// Exists reports whether the reference points at a stored object.
	Exists(ctx context.Context, imageRef string) (bool, error)
}
