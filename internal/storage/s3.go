package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/recipe-catalog/backend/config"
)

// S3API is the subset of the S3 client used for image storage
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage stores images in a public-read bucket
type S3Storage struct {
	client S3API
	cfg    *config.S3Config
}

func NewS3Storage(cfg *config.S3Config) *S3Storage {
	return &S3Storage{client: cfg.Client, cfg: cfg}
}

// NewS3StorageWithClient lets tests supply a fake client
func NewS3StorageWithClient(client S3API, cfg *config.S3Config) *S3Storage {
	return &S3Storage{client: client, cfg: cfg}
}

func (s *S3Storage) Save(ctx context.Context, key string, r io.Reader, contentType string) error {
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      s.cfg.Bucket(),
		Key:         aws.String(cleaned),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.cfg.Bucket(),
		Key:    aws.String(cleaned),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) URL(key string) string {
	return s.cfg.PublicURL(key)
}
