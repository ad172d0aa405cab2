package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options carries the connection settings for an S3-compatible store
// (AWS S3 proper or MinIO via a custom endpoint).
type S3Options struct {
	Region    string
	Endpoint  string // optional; empty means the default AWS endpoint
	Bucket    string
	AccessKey string
	SecretKey string
}

// S3Store implements BlobStore on an S3 bucket.  Objects are written with
// their content type and addressed by a nanosecond-timestamped key, which
// keeps repeated uploads from clobbering each other.
type S3Store struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

var _ BlobStore = (*S3Store)(nil)

// NewS3Store builds an S3 client with static credentials and an optional
// custom endpoint.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"", // session token not used
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			// MinIO and most S3-compatible stores require path-style access.
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, bucket: opts.Bucket, endpoint: opts.Endpoint}, nil
}

// Upload stores the object publicly readable and returns its URL.
func (s *S3Store) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	key := objectKey(contentType)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

// objectKey names uploads by timestamp plus an extension derived from the
// content type, e.g. profile/20260828T101500.123456789.jpg.
func objectKey(contentType string) string {
	ext := ".bin"
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	}
	return "profile/" + time.Now().UTC().Format("20060102T150405.000000000") + ext
}
