// Package storage provides object storage for uploaded card photos.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	memorycardapp "github.com/memoriascard/backend/internal/application/memorycard"
	infraconfig "github.com/memoriascard/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure S3PhotoStorage implements PhotoStorage
var _ memorycardapp.PhotoStorage = (*S3PhotoStorage)(nil)

// s3API is the subset of *s3.Client used by S3PhotoStorage
type s3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3PhotoStorage stores photos in any S3-compatible bucket (AWS S3, MinIO, Supabase storage)
// and serves them from a public base URL.
type S3PhotoStorage struct {
	client        s3API
	bucket        string
	publicBaseURL string
	cacheControl  string
	logger        *zap.Logger
}

// S3PhotoStorageOption is a functional option for configuring S3PhotoStorage
type S3PhotoStorageOption func(*S3PhotoStorage)

// WithLogger sets a custom logger for S3PhotoStorage
func WithLogger(logger *zap.Logger) S3PhotoStorageOption {
	return func(s *S3PhotoStorage) {
		s.logger = logger
	}
}

// WithCacheControl sets the Cache-Control header stored with uploaded objects
func WithCacheControl(v string) S3PhotoStorageOption {
	return func(s *S3PhotoStorage) {
		s.cacheControl = v
	}
}

// NewS3PhotoStorage creates a new S3PhotoStorage from configuration.
func NewS3PhotoStorage(cfg *infraconfig.StorageConfig, opts ...S3PhotoStorageOption) (*S3PhotoStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		publicBase = strings.TrimRight(endpoint, "/") + "/" + cfg.Bucket
	}

	return newS3PhotoStorage(client, cfg.Bucket, publicBase, opts...), nil
}

func newS3PhotoStorage(client s3API, bucket, publicBaseURL string, opts ...S3PhotoStorageOption) *S3PhotoStorage {
	storage := &S3PhotoStorage{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		cacheControl:  "max-age=3600",
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(storage)
	}
	return storage
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3PhotoStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Ignore "BucketAlreadyOwnedByYou" error (race condition)
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Storage bucket created successfully", zap.String("bucket", s.bucket))
	return nil
}

// Upload stores data under key. An existing object with the same key is an error,
// since photo keys are random and a collision means a retry of the same upload.
func (s *S3PhotoStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String(s.cacheControl),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		s.logger.Error("Failed to upload photo",
			zap.String("key", key),
			zap.Int("size", len(data)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("Photo uploaded", zap.String("key", key), zap.Int("size", len(data)))
	return nil
}

// PublicURL returns the URL the object stored under key is served from
func (s *S3PhotoStorage) PublicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBaseURL + "/" + strings.Join(segments, "/")
}

// Delete removes the object stored under key.
func (s *S3PhotoStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// GetBucket returns the bucket name
func (s *S3PhotoStorage) GetBucket() string {
	return s.bucket
}
