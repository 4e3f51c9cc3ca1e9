package storage

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/go-social-network/pkg/helpers"
)

// GCSAvatarStore uploads profile pictures into a public-read bucket.
type GCSAvatarStore struct {
	client *storage.Client
	bucket string
}

func NewGCSAvatarStore(client *storage.Client, bucket string) *GCSAvatarStore {
	return &GCSAvatarStore{client: client, bucket: bucket}
}

func (s *GCSAvatarStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.client, s.bucket, objectPath, contentType, r)
}
