package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"travel-journal-backend/internal/models"
	"travel-journal-backend/internal/storage"

	"github.com/google/uuid"
)

// allowedImageTypes lists the accepted upload content types
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
}

// ImageService stores, serves and removes uploaded images
type ImageService struct {
	blobs     storage.Blob
	publicURL string
	now       func() time.Time
}

// NewImageService creates a new image service
func NewImageService(blobs storage.Blob, publicURL string) *ImageService {
	return &ImageService{
		blobs:     blobs,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// StoreImage writes an upload to the blob store and returns its public URL
func (s *ImageService) StoreImage(ctx context.Context, r io.Reader, size int64, filename, contentType string) (string, error) {
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("content type %q: %w", contentType, models.ErrUnsupportedMediaType)
	}

	key := s.newKey(filename)
	if err := s.blobs.Put(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return ImageURL(s.publicURL, key), nil
}

// DeleteImage removes the blob referenced by an image URL.
// It reports whether the blob existed.
func (s *ImageService) DeleteImage(ctx context.Context, ref string) (bool, error) {
	if isBlank(ref) {
		return false, fmt.Errorf("image url is required: %w", models.ErrValidation)
	}

	key := KeyFromURL(ref)
	if storage.ValidateKey(key) != nil {
		return false, nil
	}

	exists, err := s.blobs.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to check image: %w", err)
	}
	if !exists {
		return false, nil
	}

	if err := s.blobs.Delete(ctx, key); err != nil {
		return false, fmt.Errorf("failed to delete image: %w", err)
	}
	return true, nil
}

// OpenImage opens a stored image for streaming
func (s *ImageService) OpenImage(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, fmt.Errorf("image %s: %w", key, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return rc, nil
}

// newKey builds a time-ordered, collision-resistant key keeping the upload's extension
func (s *ImageService) newKey(filename string) string {
	ext := path.Ext(filename)
	if strings.ContainsAny(ext, `\ `) {
		ext = ""
	}
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.New().String(), ext)
}

// ImageURL returns the public URL of the blob stored under key
func ImageURL(publicURL, key string) string {
	return strings.TrimRight(publicURL, "/") + "/uploads/" + key
}

// PlaceholderImageURL returns the URL of the image used when a story has none
func PlaceholderImageURL(publicURL string) string {
	return strings.TrimRight(publicURL, "/") + "/assets/noimage.jpg"
}

// KeyFromURL returns the last path segment of an image reference
func KeyFromURL(ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil {
		p = u.Path
	}
	return path.Base(p)
}
