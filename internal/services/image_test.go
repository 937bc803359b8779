package services

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"travel-journal-backend/internal/models"
	"travel-journal-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImageService() (*ImageService, *testutil.BlobStore) {
	blobs := testutil.NewBlobStore()
	s := NewImageService(blobs, testPublicURL+"/")
	s.now = func() time.Time { return fixedNow }
	return s, blobs
}

func TestImageService_StoreImage(t *testing.T) {
	s, blobs := newTestImageService()

	url, err := s.StoreImage(context.Background(), strings.NewReader("jpeg"), 4, "beach.jpeg", "image/jpeg")
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^http://localhost:3000/uploads/` +
		`(\d+)-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.jpeg$`)
	m := pattern.FindStringSubmatch(url)
	require.NotNil(t, m, url)
	assert.Equal(t, "1714564800000", m[1])

	keys := blobs.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, KeyFromURL(url), keys[0])
	assert.Equal(t, "image/jpeg", blobs.ContentType(keys[0]))
}

func TestImageService_StoreImage_UniqueKeys(t *testing.T) {
	s, blobs := newTestImageService()

	for i := 0; i < 3; i++ {
		_, err := s.StoreImage(context.Background(), strings.NewReader("png"), 3, "a.png", "image/png")
		require.NoError(t, err)
	}
	assert.Len(t, blobs.Keys(), 3)
}

func TestImageService_StoreImage_RejectsType(t *testing.T) {
	s, blobs := newTestImageService()

	for _, ct := range []string{"image/gif", "text/plain", "", "image/PNG"} {
		_, err := s.StoreImage(context.Background(), strings.NewReader("x"), 1, "a.gif", ct)
		assert.ErrorIs(t, err, models.ErrUnsupportedMediaType, ct)
	}
	assert.Empty(t, blobs.Keys())
}

func TestImageService_StoreImage_StoreError(t *testing.T) {
	s, blobs := newTestImageService()
	blobs.PutErr = errors.New("disk full")

	_, err := s.StoreImage(context.Background(), strings.NewReader("x"), 1, "a.png", "image/png")
	assert.ErrorContains(t, err, "failed to store image")
}

func TestImageService_DeleteImage(t *testing.T) {
	ctx := context.Background()
	s, blobs := newTestImageService()
	blobs.Seed("1-a.png", []byte("png"))

	found, err := s.DeleteImage(ctx, "http://localhost:3000/uploads/1-a.png")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, blobs.Keys())

	found, err = s.DeleteImage(ctx, "http://localhost:3000/uploads/1-a.png")
	require.NoError(t, err)
	assert.False(t, found)

	found, err = s.DeleteImage(ctx, "http://localhost:3000/")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = s.DeleteImage(ctx, "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestImageService_OpenImage(t *testing.T) {
	ctx := context.Background()
	s, blobs := newTestImageService()
	blobs.Seed("1-a.png", []byte("png"))

	rc, err := s.OpenImage(ctx, "1-a.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	_, err = s.OpenImage(ctx, "missing.png")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.OpenImage(ctx, "..")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestKeyFromURL(t *testing.T) {
	tests := map[string]string{
		"http://localhost:3000/uploads/1-a.png":      "1-a.png",
		"https://cdn.example.com/uploads/x.jpg?v=2": "x.jpg",
		"/uploads/y.jpeg":                           "y.jpeg",
		"z.png":                                     "z.png",
	}
	for in, want := range tests {
		assert.Equal(t, want, KeyFromURL(in), in)
	}
}
