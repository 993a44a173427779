package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePut(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := NewLocalStore(fs, "uploads", "http://localhost:8080/")
	require.NoError(t, err)

	loc, err := store.Put(context.Background(), "123-cat.png", bytes.NewReader([]byte("png")), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/123-cat.png", loc)

	data, err := afero.ReadFile(fs, "uploads/123-cat.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	_, err = store.Put(context.Background(), "123-cat.png", bytes.NewReader([]byte("again")), 5, "image/png")
	assert.Error(t, err, "existing objects are never overwritten")
}

func TestLocalStoreKeyCannotEscapeDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := NewLocalStore(fs, "uploads", "http://x")
	require.NoError(t, err)

	loc, err := store.Put(context.Background(), "../../etc/passwd", bytes.NewReader(nil), 0, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://x/uploads/passwd", loc)

	ok, err := afero.Exists(fs, "uploads/passwd")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalStoreFileSystem(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := NewLocalStore(fs, "uploads", "http://x")
	require.NoError(t, err)
	_, err = store.Put(context.Background(), "a.png", bytes.NewReader([]byte("img")), 3, "image/png")
	require.NoError(t, err)

	f, err := store.FileSystem().Open("/a.png")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))
}

type fakePutter struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	return &s3.PutObjectOutput{}, f.err
}

func TestS3StorePut(t *testing.T) {
	fake := &fakePutter{}
	store := newS3Store(fake, S3Config{Bucket: "media", Region: "eu-west-1"})

	loc, err := store.Put(context.Background(), "1-a.jpg", bytes.NewReader([]byte("x")), 1, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com/1-a.jpg", loc)
	assert.Equal(t, "media", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "1-a.jpg", aws.ToString(fake.input.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(fake.input.ContentType))
	assert.Equal(t, int64(1), aws.ToInt64(fake.input.ContentLength))
}

func TestS3StorePublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"custom endpoint", S3Config{Bucket: "b", Endpoint: "http://127.0.0.1:9000/"}, "http://127.0.0.1:9000/b/k.png"},
		{"cdn", S3Config{Bucket: "b", Endpoint: "http://minio", PublicURL: "https://cdn.example.com"}, "https://cdn.example.com/k.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newS3Store(&fakePutter{}, tt.cfg)
			loc, err := store.Put(context.Background(), "k.png", bytes.NewReader(nil), 0, "image/png")
			require.NoError(t, err)
			assert.Equal(t, tt.want, loc)
		})
	}
}

func TestS3StorePutError(t *testing.T) {
	store := newS3Store(&fakePutter{err: errors.New("denied")}, S3Config{Bucket: "b", Region: "r"})
	_, err := store.Put(context.Background(), "k", bytes.NewReader(nil), 0, "image/png")
	assert.ErrorContains(t, err, "denied")
}
