// Package upload resolves opaque image references against a blob bucket.
// The core only ever stores references; bytes stay in the bucket.
package upload

import (
	"context"
	"log/slog"
	"time"

	"plowline/config"
	"plowline/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"

	// Bucket URL schemes supported out of the box.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

// blobStore implements service.UploadStore over a gocloud blob bucket.
type blobStore struct {
	bucket *blob.Bucket
}

// Params holds dependencies for the upload store, injected by Fx
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and returns it as a service.UploadStore.
func New(params Params) (service.UploadStore, error) {
	cfg := params.Config.Uploads
	if cfg == nil || cfg.BucketURL == "" {
		return nil, errors.New("uploads bucket URL must be configured")
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", cfg.BucketURL)
	}

	params.Logger.Info("Upload bucket opened", slog.String("bucket", cfg.BucketURL))

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return &blobStore{bucket: bucket}, nil
}

// ResolveURL returns a time-limited signed URL for a stored image reference.
func (s *blobStore) ResolveURL(ctx context.Context, imageRef string, expiry time.Duration) (string, error) {
	url, err := s.bucket.SignedURL(ctx, imageRef, &blob.SignedURLOptions{Expiry: expiry})
	if err != nil {
		return "", errors.Wrapf(err, "failed to sign URL for %s", imageRef)
	}

	return url, nil
}

// Exists reports whether the reference points at a stored object.
func (s *blobStore) Exists(ctx context.Context, imageRef string) (bool, error) {
	exists, err := s.bucket.Exists(ctx, imageRef)
	if err != nil {
		return false, errors.Wrapf(err, "failed to check object %s", imageRef)
	}

	return exists, nil
}
