// Package storage provides pre-signed URL access to S3-compatible object
// storage (MinIO in development, S3 in production).
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/propertypassport/api/internal/config"
	"github.com/propertypassport/api/internal/metrics"
	"github.com/propertypassport/api/pkg/logger"
)

// Client wraps the S3 client with presign operations for the photo and
// document buckets.
type Client struct {
	s3       *s3.Client
	presign  *s3.PresignClient
	cfg      config.StorageConfig
	logger   *logger.Logger
	urlCache *URLCache
}

// NewClient creates a storage client against the configured endpoint.
func NewClient(ctx context.Context, cfg config.StorageConfig, log *logger.Logger, cache *URLCache) (*Client, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}

	awsOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsOpts = append(awsOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle // required for MinIO
	})

	return &Client{
		s3:       s3Client,
		presign:  s3.NewPresignClient(s3Client),
		cfg:      cfg,
		logger:   log.With("component", "storage"),
		urlCache: cache,
	}, nil
}

// PhotoBucket returns the bucket name for media objects.
func (c *Client) PhotoBucket() string { return c.cfg.PhotoBucket }

// DocumentBucket returns the bucket name for document objects.
func (c *Client) DocumentBucket() string { return c.cfg.DocumentBucket }

// SignedURLTTL returns the configured lifetime of signed GET URLs.
func (c *Client) SignedURLTTL() time.Duration { return c.cfg.SignedURLTTL }

// SignedGetURL returns a pre-signed GET URL for the object, serving from the
// in-memory cache when a live entry exists.
func (c *Client) SignedGetURL(ctx context.Context, bucket, key string) (string, error) {
	cacheKey := bucket + "/" + key
	if c.urlCache != nil {
		if url, ok := c.urlCache.Get(cacheKey); ok {
			return url, nil
		}
	}

	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(c.cfg.SignedURLTTL))
	if err != nil {
		metrics.PresignRequestsTotal.WithLabelValues("get", "error").Inc()
		return "", fmt.Errorf("failed to presign GET for %s/%s: %w", bucket, key, err)
	}
	metrics.PresignRequestsTotal.WithLabelValues("get", "ok").Inc()

	if c.urlCache != nil {
		c.urlCache.Set(cacheKey, req.URL)
	}

	return req.URL, nil
}

// SignedPutURL returns a pre-signed PUT URL for uploading an object. Upload
// URLs are single-use by convention and never cached.
func (c *Client) SignedPutURL(ctx context.Context, bucket, key, contentType string) (string, error) {
	req, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(c.cfg.SignedURLTTL))
	if err != nil {
		metrics.PresignRequestsTotal.WithLabelValues("put", "error").Inc()
		return "", fmt.Errorf("failed to presign PUT for %s/%s: %w", bucket, key, err)
	}
	metrics.PresignRequestsTotal.WithLabelValues("put", "ok").Inc()

	return req.URL, nil
}

// DeleteObject removes an object from storage.
func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// ObjectRef identifies an object for batch presigning.
type ObjectRef struct {
	Bucket string
	Key    string
}

// SignedGetURLs presigns GET URLs for a batch of objects concurrently,
// bounded by the configured concurrency limit. Results preserve input order.
// One failed presign fails the batch.
func (c *Client) SignedGetURLs(ctx context.Context, refs []ObjectRef) ([]string, error) {
	urls := make([]string, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.PresignConcurrency)

	for i, ref := range refs {
		g.Go(func() error {
			url, err := c.SignedGetURL(gctx, ref.Bucket, ref.Key)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return urls, nil
}
