package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/platewise/backend/config"
)

// PhotoStore keeps uploaded meal photos.
type PhotoStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3PhotoStore stores photos in the configured bucket and hands out
// presigned read URLs.
type S3PhotoStore struct {
	s3  *config.S3Config
	ttl time.Duration
}

func NewS3PhotoStore(s3Config *config.S3Config, urlTTL time.Duration) *S3PhotoStore {
	if urlTTL <= 0 {
		urlTTL = time.Hour
	}
	return &S3PhotoStore{s3: s3Config, ttl: urlTTL}
}

func (s *S3PhotoStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *S3PhotoStore) URL(ctx context.Context, key string) (string, error) {
	return s.s3.GeneratePresignedURL(ctx, key, s.ttl)
}

func (s *S3PhotoStore) Delete(ctx context.Context, key string) error {
	_, err := s.s3.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
