package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"bandmate-api/core/config"
	"bandmate-api/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Storage uploads and serves setlist attachments from an S3 bucket
type Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

type StorageInterface interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

func New(cfg config.StorageConfig) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket not configured")
	}

	client := s3.New(s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		BaseEndpoint: func() *string {
			if cfg.Endpoint != "" {
				return aws.String(cfg.Endpoint)
			}
			return nil
		}(),
	})

	logger.Info("Storage initialized", "bucket", cfg.Bucket, "region", cfg.Region)
	return &Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

func (s *Storage) Upload(ctx context.Context, key string, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("Storage:Upload", "key", key, "error", err)
		return err
	}
	return nil
}

func (s *Storage) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		logger.Error("Storage:PresignedURL", "key", key, "error", err)
		return "", err
	}
	return req.URL, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Error("Storage:Delete", "key", key, "error", err)
		return err
	}
	return nil
}
