package application

import (
	"context"
	"io"
)

// EventPublisher enqueues a JSON job for the background worker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AvatarStore uploads profile pictures and returns their public URL.
type AvatarStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
