package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"notescatalog/internal/domain"
)

// s3API is the subset of *s3.Client used by S3Store.
type s3API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Config configures the image bucket. Endpoint is optional; when set the client uses
// path-style addressing, which MinIO and most S3-compatible servers require.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	URLExpiry       time.Duration
}

// S3Store keeps note images in one S3 bucket and hands out presigned GET URLs.
type S3Store struct {
	client    s3API
	presign   presigner
	bucket    string
	urlExpiry time.Duration
	now       func() time.Time

	mu          sync.Mutex
	bucketReady bool
}

var _ domain.ImageStore = (*S3Store)(nil)

// NewS3Store builds an S3 client from cfg. Static credentials are used when both keys are
// set; otherwise the default AWS credential chain applies.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, s3.NewPresignClient(client), cfg.Bucket, cfg.URLExpiry), nil
}

func newS3Store(client s3API, p presigner, bucket string, urlExpiry time.Duration) *S3Store {
	if urlExpiry <= 0 {
		urlExpiry = 24 * time.Hour
	}
	return &S3Store{
		client:    client,
		presign:   p,
		bucket:    bucket,
		urlExpiry: urlExpiry,
		now:       time.Now,
	}
}

// Upload stores r under "<base>_<unix seconds><ext>" and returns that key.
func (s *S3Store) Upload(ctx context.Context, r io.Reader, size int64, fileName, contentType string) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}
	key := uniqueKey(fileName, s.now())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

// Resolve checks that the object exists and returns a presigned GET URL for it.
func (s *S3Store) Resolve(ctx context.Context, fileName string) (string, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileName),
	})
	if err != nil {
		if isNotFound(err) {
			return "", domain.NotFound("Image", fileName)
		}
		return "", fmt.Errorf("head object %s: %w", fileName, err)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileName),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.urlExpiry
	})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", fileName, err)
	}
	return req.URL, nil
}

func (s *S3Store) Open(ctx context.Context, fileName string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileName),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, "", domain.NotFound("Image", fileName)
		}
		return nil, "", fmt.Errorf("get object %s: %w", fileName, err)
	}
	return out.Body, aws.ToString(out.ContentType), nil
}

// Delete removes the object. S3 deletes are idempotent, so existence is checked first to
// report NotFound for unknown keys.
func (s *S3Store) Delete(ctx context.Context, fileName string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileName),
	})
	if err != nil {
		if isNotFound(err) {
			return domain.NotFound("Image", fileName)
		}
		return fmt.Errorf("head object %s: %w", fileName, err)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileName),
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", fileName, err)
	}
	return nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bucketReady {
		return nil
	}

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		if !isNotFound(err) {
			return fmt.Errorf("head bucket %s: %w", s.bucket, err)
		}
		_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
		if err != nil && !isAlreadyOwned(err) {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	s.bucketReady = true
	return nil
}

func uniqueKey(fileName string, now time.Time) string {
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(filepath.Base(fileName), ext)
	return fmt.Sprintf("%s_%d%s", base, now.Unix(), ext)
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) || errors.As(err, &noSuchBucket) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return true
		}
	}
	return false
}

func isAlreadyOwned(err error) bool {
	var owned *types.BucketAlreadyOwnedByYou
	return errors.As(err, &owned)
}
