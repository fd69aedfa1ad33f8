package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/memoriascard/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3PhotoStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3PhotoStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3PhotoStorage(&config.StorageConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		_, err := NewS3PhotoStorage(&config.StorageConfig{Bucket: "b", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		_, err := NewS3PhotoStorage(&config.StorageConfig{Bucket: "b", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("public base defaults to endpoint and bucket", func(t *testing.T) {
		s, err := NewS3PhotoStorage(&config.StorageConfig{
			Bucket:       "memory-photos",
			AccessKey:    "k",
			SecretKey:    "s",
			Endpoint:     "http://localhost:9000/",
			UsePathStyle: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "memory-photos", s.GetBucket())
		assert.Equal(t, "http://localhost:9000/memory-photos/u1/a.jpg", s.PublicURL("u1/a.jpg"))
	})

	t.Run("configured public base wins", func(t *testing.T) {
		s, err := NewS3PhotoStorage(&config.StorageConfig{
			Bucket:        "memory-photos",
			AccessKey:     "k",
			SecretKey:     "s",
			PublicBaseURL: "https://cdn.example.com/photos/",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/photos/u1/foto%20nova.jpg", s.PublicURL("u1/foto nova.jpg"))
	})
}

// fakeS3 records calls made through s3API
type fakeS3 struct {
	headErr   error
	createErr error
	putErr    error
	created   bool
	puts      []*s3.PutObjectInput
	bodies    [][]byte
	deleted   []string
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = true
	return &s3.CreateBucketOutput{}, f.createErr
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3PhotoStorage_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("puts object with content type and cache control", func(t *testing.T) {
		fake := &fakeS3{}
		s := newS3PhotoStorage(fake, "photos", "https://cdn.example.com")

		require.NoError(t, s.Upload(ctx, "u1/a.png", []byte("png-bytes"), "image/png"))

		require.Len(t, fake.puts, 1)
		in := fake.puts[0]
		assert.Equal(t, "photos", aws.ToString(in.Bucket))
		assert.Equal(t, "u1/a.png", aws.ToString(in.Key))
		assert.Equal(t, "image/png", aws.ToString(in.ContentType))
		assert.Equal(t, "max-age=3600", aws.ToString(in.CacheControl))
		assert.Equal(t, "*", aws.ToString(in.IfNoneMatch))
		assert.Equal(t, []byte("png-bytes"), fake.bodies[0])
	})

	t.Run("wraps errors", func(t *testing.T) {
		fake := &fakeS3{putErr: errors.New("access denied")}
		s := newS3PhotoStorage(fake, "photos", "https://cdn.example.com")

		err := s.Upload(ctx, "u1/a.png", []byte("x"), "image/png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})

	t.Run("requires key", func(t *testing.T) {
		s := newS3PhotoStorage(&fakeS3{}, "photos", "https://cdn.example.com")
		assert.Error(t, s.Upload(ctx, "", []byte("x"), "image/png"))
	})
}

func TestS3PhotoStorage_EnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("existing bucket", func(t *testing.T) {
		fake := &fakeS3{}
		require.NoError(t, newS3PhotoStorage(fake, "photos", "").EnsureBucket(ctx))
		assert.False(t, fake.created)
	})

	t.Run("creates missing bucket", func(t *testing.T) {
		fake := &fakeS3{headErr: &types.NotFound{}}
		require.NoError(t, newS3PhotoStorage(fake, "photos", "").EnsureBucket(ctx))
		assert.True(t, fake.created)
	})

	t.Run("tolerates concurrent creation", func(t *testing.T) {
		fake := &fakeS3{headErr: &types.NoSuchBucket{}, createErr: &types.BucketAlreadyOwnedByYou{}}
		assert.NoError(t, newS3PhotoStorage(fake, "photos", "").EnsureBucket(ctx))
	})

	t.Run("other head errors fail", func(t *testing.T) {
		fake := &fakeS3{headErr: errors.New("forbidden")}
		assert.Error(t, newS3PhotoStorage(fake, "photos", "").EnsureBucket(ctx))
		assert.False(t, fake.created)
	})
}

func TestS3PhotoStorage_Delete(t *testing.T) {
	fake := &fakeS3{}
	s := newS3PhotoStorage(fake, "photos", "")

	require.NoError(t, s.Delete(context.Background(), "u1/a.png"))
	assert.Equal(t, []string{"u1/a.png"}, fake.deleted)
	assert.Error(t, s.Delete(context.Background(), ""))
}
