// Package storage provides blob stores for product images.
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
	catalogapp "github.com/storeadmin/backend/internal/application/catalog"
	infraconfig "github.com/storeadmin/backend/internal/infrastructure/config"
	"github.com/storeadmin/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var _ catalogapp.ImageStorage = (*S3ImageStore)(nil)

// ObjectAPI is the subset of the S3 client the image store calls
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3ImageStore stores product images in an S3-compatible bucket (AWS S3, MinIO, etc.)
// and returns public URLs for them.
type S3ImageStore struct {
	client    ObjectAPI
	bucket    string
	keyPrefix string
	baseURL   string
	logger    *zap.Logger
}

// S3ImageStoreOption is a functional option for configuring S3ImageStore
type S3ImageStoreOption func(*S3ImageStore)

// WithLogger sets a custom logger for S3ImageStore
func WithLogger(logger *zap.Logger) S3ImageStoreOption {
	return func(s *S3ImageStore) {
		s.logger = logger
	}
}

// WithClient replaces the S3 client, mainly for tests
func WithClient(client ObjectAPI) S3ImageStoreOption {
	return func(s *S3ImageStore) {
		s.client = client
	}
}

// NewS3ImageStore creates an S3ImageStore from configuration
func NewS3ImageStore(ctx context.Context, cfg *infraconfig.StorageConfig, opts ...S3ImageStoreOption) (*S3ImageStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	store := &S3ImageStore{
		bucket:    cfg.Bucket,
		keyPrefix: strings.Trim(cfg.KeyPrefix, "/"),
		baseURL:   publicBaseURL(cfg.PublicBaseURL, endpoint, cfg.Bucket, region, cfg.UsePathStyle),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.client != nil {
		return store, nil
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	// Static keys are optional; without them the default chain (env, shared
	// config, instance role) applies.
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	store.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return store, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup.
func (s *S3ImageStore) EnsureBucket(ctx context.Context) error {
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
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Put uploads data under key and returns its public URL
func (s *S3ImageStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	objectKey := s.objectKey(key)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	logger.WithTraceContext(ctx, s.logger).Debug("Image stored",
		zap.String("bucket", s.bucket),
		zap.String("key", objectKey),
		zap.Int("size", len(data)))
	return s.URL(key), nil
}

// Delete removes the object stored under key
func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URL returns the public URL of key
func (s *S3ImageStore) URL(key string) string {
	return s.baseURL + "/" + s.objectKey(key)
}

// Bucket returns the bucket name
func (s *S3ImageStore) Bucket() string {
	return s.bucket
}

func (s *S3ImageStore) objectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + "/" + key
}

// publicBaseURL picks the configured CDN base, else the endpoint-based URL,
// else the AWS virtual-hosted URL.
func publicBaseURL(configured, endpoint, bucket, region string, pathStyle bool) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	if endpoint != "" {
		if pathStyle {
			return endpoint + "/" + bucket
		}
		u, err := url.Parse(endpoint)
		if err == nil && u.Host != "" {
			return u.Scheme + "://" + bucket + "." + u.Host
		}
		return endpoint + "/" + bucket
	}
	if pathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s", region, bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}
