package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI in memory
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      bool

	objects   map[string][]byte
	types     map[string]string
	putErr    error
	statErr   error
	removeErr error
}

func newFakeMinio() *fakeMinio {
	return &fakeMinio{bucketExists: true, objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minio.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}

func (f *fakeMinio) PutObject(_ context.Context, _ string, name string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[name] = data
	f.types[name] = opts.ContentType
	return minio.UploadInfo{Key: name, Size: int64(len(data))}, nil
}

func (f *fakeMinio) GetObject(_ context.Context, _ string, name string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.objects[name])), nil
}

func (f *fakeMinio) RemoveObject(_ context.Context, _ string, name string, _ minio.RemoveObjectOptions) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, name)
	return nil
}

func (f *fakeMinio) StatObject(_ context.Context, _ string, name string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if f.statErr != nil {
		return minio.ObjectInfo{}, f.statErr
	}
	if _, ok := f.objects[name]; !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
	}
	return minio.ObjectInfo{Key: name, Size: int64(len(f.objects[name]))}, nil
}

func TestNewMinioWithAPI_CreatesBucket(t *testing.T) {
	api := newFakeMinio()
	api.bucketExists = false

	m, err := NewMinioWithAPI(context.Background(), api, "images")
	require.NoError(t, err)
	assert.Equal(t, "images", m.bucket)
	assert.True(t, api.madeBucket)
}

func TestNewMinioWithAPI_Errors(t *testing.T) {
	api := newFakeMinio()
	api.bucketExistsErr = errors.New("boom")
	_, err := NewMinioWithAPI(context.Background(), api, "images")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check bucket existence")

	api = newFakeMinio()
	api.bucketExists = false
	api.makeBucketErr = errors.New("denied")
	_, err = NewMinioWithAPI(context.Background(), api, "images")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create bucket")
}

func TestMinio_Lifecycle(t *testing.T) {
	ctx := context.Background()
	api := newFakeMinio()
	m, err := NewMinioWithAPI(ctx, api, "images")
	require.NoError(t, err)

	require.NoError(t, m.Put(ctx, "a.jpg", strings.NewReader("jpeg"), 4, "image/jpeg"))
	assert.Equal(t, "image/jpeg", api.types["a.jpg"])

	ok, err := m.Exists(ctx, "a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := m.Get(ctx, "a.jpg")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, m.Delete(ctx, "a.jpg"))

	ok, err = m.Exists(ctx, "a.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.Get(ctx, "a.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMinio_Errors(t *testing.T) {
	ctx := context.Background()
	api := newFakeMinio()
	m, err := NewMinioWithAPI(ctx, api, "images")
	require.NoError(t, err)

	api.putErr = errors.New("disk full")
	err = m.Put(ctx, "a.jpg", strings.NewReader("x"), 1, "image/jpeg")
	assert.ErrorContains(t, err, "failed to upload object")

	api.statErr = errors.New("timeout")
	_, err = m.Exists(ctx, "a.jpg")
	assert.ErrorContains(t, err, "failed to stat object")

	api.removeErr = errors.New("denied")
	assert.ErrorContains(t, m.Delete(ctx, "a.jpg"), "failed to delete object")
}
