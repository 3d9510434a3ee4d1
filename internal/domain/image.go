package domain

import (
	"context"
	"io"
	"time"
)

// ImageResolver turns a stored image file name into a time-limited retrievable URL.
// It returns NotFound("Image", fileName) when the object does not exist.
type ImageResolver interface {
	Resolve(ctx context.Context, fileName string) (string, error)
}

// ImageStore is the object storage holding note images.
type ImageStore interface {
	ImageResolver
	Upload(ctx context.Context, r io.Reader, size int64, fileName, contentType string) (string, error)
	Open(ctx context.Context, fileName string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, fileName string) error
}

// URLCache stores resolved image URLs for a bounded time.
// Get returns ok=false on a miss.
type URLCache interface {
	Get(ctx context.Context, fileName string) (url string, ok bool, err error)
	Set(ctx context.Context, fileName, url string, ttl time.Duration) error
	Delete(ctx context.Context, fileName string) error
}

// ImageService defines image upload and retrieval.
type ImageService interface {
	Upload(ctx context.Context, r io.Reader, size int64, fileName, contentType string) (string, error)
	Open(ctx context.Context, fileName string) (io.ReadCloser, string, error)
	URL(ctx context.Context, fileName string) (string, error)
	Delete(ctx context.Context, fileName string) error
}
