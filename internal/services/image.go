package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"notescatalog/internal/domain"
)

const (
	maxImageFileNameLength = 100
	resolveConcurrency     = 8
	// URLs are cached for less than their presign lifetime so a cached URL is never stale.
	urlCacheMargin = 5 * time.Minute
)

var (
	allowedImageExtensions   = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}
	allowedImageContentTypes = []string{"image/jpeg", "image/png", "image/gif", "image/bmp", "image/webp"}
)

// imageDecorator turns notes into views carrying resolved image URLs.
type imageDecorator struct {
	resolver domain.ImageResolver
	logger   *slog.Logger
}

func newImageDecorator(resolver domain.ImageResolver, logger *slog.Logger) *imageDecorator {
	return &imageDecorator{resolver: resolver, logger: logger}
}

// decorate resolves every image of every note concurrently. With strict set the first
// resolution failure is returned. Otherwise failures leave an empty URL and are logged,
// and the returned error is always nil.
func (d *imageDecorator) decorate(ctx context.Context, notes []*domain.Note, strict bool) ([]*domain.NoteView, error) {
	views := make([]*domain.NoteView, len(notes))
	for i, n := range notes {
		views[i] = toView(n)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for _, v := range views {
		for j := range v.Images {
			img := &v.Images[j]
			g.Go(func() error {
				url, err := d.resolver.Resolve(gctx, img.FileName)
				if err != nil {
					if strict {
						return err
					}
					d.logger.WarnContext(ctx, "image url unresolved", "note_id", v.ID, "file_name", img.FileName, "err", err)
					return nil
				}
				img.URL = url
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

func toView(n *domain.Note) *domain.NoteView {
	images := make([]domain.NoteImage, len(n.ImageFileNames))
	for i, f := range n.ImageFileNames {
		images[i] = domain.NoteImage{FileName: f}
	}
	tags := n.Tags
	if tags == nil {
		tags = []*domain.Tag{}
	}
	return &domain.NoteView{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		CreatedAt:   n.CreatedAt,
		Tags:        tags,
		TagNames:    n.TagNames(),
		Images:      images,
	}
}

type cachedResolver struct {
	next   domain.ImageResolver
	cache  domain.URLCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedResolver wraps next with a URL cache. urlExpiry is the lifetime of URLs
// produced by next; entries live for a safety margin less than that.
func NewCachedResolver(next domain.ImageResolver, cache domain.URLCache, urlExpiry time.Duration, logger *slog.Logger) domain.ImageResolver {
	ttl := urlExpiry - urlCacheMargin
	if ttl <= 0 {
		ttl = urlExpiry / 2
	}
	return &cachedResolver{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (r *cachedResolver) Resolve(ctx context.Context, fileName string) (string, error) {
	if url, ok, err := r.cache.Get(ctx, fileName); err != nil {
		r.logger.WarnContext(ctx, "url cache get failed", "file_name", fileName, "err", err)
	} else if ok {
		return url, nil
	}

	url, err := r.next.Resolve(ctx, fileName)
	if err != nil {
		return "", err
	}
	if err := r.cache.Set(ctx, fileName, url, r.ttl); err != nil {
		r.logger.WarnContext(ctx, "url cache set failed", "file_name", fileName, "err", err)
	}
	return url, nil
}

type imageService struct {
	store          domain.ImageStore
	resolver       domain.ImageResolver
	cache          domain.URLCache
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewImageService creates an ImageService. resolver is used for URL lookups and may be a
// cached wrapper around store; cache may be nil.
func NewImageService(store domain.ImageStore, resolver domain.ImageResolver, cache domain.URLCache, logger *slog.Logger, timeout time.Duration) domain.ImageService {
	if resolver == nil {
		resolver = store
	}
	return &imageService{
		store:          store,
		resolver:       resolver,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *imageService) Upload(ctx context.Context, r io.Reader, size int64, fileName, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateImageUpload(size, fileName, contentType); err != nil {
		return "", err
	}
	stored, err := s.store.Upload(ctx, r, size, fileName, strings.ToLower(contentType))
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	s.logger.InfoContext(ctx, "image uploaded", "file_name", stored, "size", size)
	return stored, nil
}

// Open streams an image. Reads are not bounded by the service timeout since the caller
// consumes the body after Open returns.
func (s *imageService) Open(ctx context.Context, fileName string) (io.ReadCloser, string, error) {
	body, contentType, err := s.store.Open(ctx, fileName)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	return body, contentType, nil
}

func (s *imageService) URL(ctx context.Context, fileName string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	url, err := s.resolver.Resolve(ctx, fileName)
	if err != nil {
		return "", fmt.Errorf("image url: %w", err)
	}
	return url, nil
}

func (s *imageService) Delete(ctx context.Context, fileName string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.store.Delete(ctx, fileName); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, fileName); err != nil {
			s.logger.WarnContext(ctx, "url cache delete failed", "file_name", fileName, "err", err)
		}
	}
	s.logger.InfoContext(ctx, "image deleted", "file_name", fileName)
	return nil
}

func validateImageUpload(size int64, fileName, contentType string) error {
	switch {
	case size <= 0:
		return domain.InvalidInput("file cannot be empty")
	case strings.TrimSpace(fileName) == "":
		return domain.InvalidInput("file name is required")
	case len(fileName) > maxImageFileNameLength:
		return domain.InvalidInput("file name cannot exceed %d characters", maxImageFileNameLength)
	case strings.ContainsAny(fileName, `/\:*?"<>|`) || strings.ContainsRune(fileName, 0):
		return domain.InvalidInput("invalid file name format")
	case !slices.Contains(allowedImageExtensions, strings.ToLower(filepath.Ext(fileName))):
		return domain.InvalidInput("file must be an image with extension %s", strings.Join(allowedImageExtensions, ", "))
	case !slices.Contains(allowedImageContentTypes, strings.ToLower(contentType)):
		return domain.InvalidInput("invalid image content type, supported types: %s", strings.Join(allowedImageContentTypes, ", "))
	}
	return nil
}
