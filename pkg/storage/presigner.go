// Package storage issues time-limited URLs against an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Presigner is the object store collaborator used by the file service.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, metadata map[string]string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type S3Config struct {
	Bucket       string
	Endpoint     string // MinIO, LocalStack
	UsePathStyle bool
}

type S3Presigner struct {
	bucket string
	client *s3.PresignClient
}

var _ Presigner = (*S3Presigner)(nil)

func NewS3Presigner(awsCfg aws.Config, cfg S3Config) *S3Presigner {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Presigner{
		bucket: cfg.Bucket,
		client: s3.NewPresignClient(client),
	}
}

func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string, metadata map[string]string, ttl time.Duration) (string, error) {
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Metadata:    metadata,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, nil
}

func (p *S3Presigner) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, nil
}
