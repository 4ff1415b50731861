package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gobarber/gobarber-client/pkg/logger"
	"github.com/gobarber/gobarber-client/pkg/metrics"
	"go.uber.org/zap"
)

// S3Config describes an S3-compatible bucket
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicURL prefixes object keys in returned URLs; defaults to Endpoint/Bucket
	PublicURL string
}

// S3Client stores objects in an S3-compatible bucket
type S3Client struct {
	s3Client  *s3.Client
	bucket    string
	publicURL string
}

// NewS3Client creates a client using path-style addressing so that
// self-hosted S3 implementations work without DNS setup
func NewS3Client(cfg S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = endpoint + "/" + cfg.Bucket
	}

	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token not needed
		),
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", cfg.Bucket),
		zap.String("endpoint", endpoint),
		zap.String("region", cfg.Region),
	)

	return &S3Client{
		s3Client:  client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

// Put uploads data under key and returns its public URL
func (c *S3Client) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	start := time.Now()
	operation := "putObject"

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall(operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall(operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(data)),
	)

	return c.publicURL + "/" + key, nil
}
