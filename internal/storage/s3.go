package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Rrens/room-designer/internal/config"
)

// S3Storage stores objects in an S3 (or S3-compatible) bucket
type S3Storage struct {
	client          *s3.Client
	bucket          string
	baseURL         string
	publicRead      bool
	keys            *KeyGenerator
	http            *http.Client
	downloadTimeout time.Duration
}

// NewS3Storage builds an S3 client from static credentials when given, else the default chain
func NewS3Storage(ctx context.Context, cfg config.S3Config, keys *KeyGenerator, downloadTimeout time.Duration) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.Endpoint, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3Storage{
		client:          client,
		bucket:          cfg.Bucket,
		baseURL:         strings.TrimRight(baseURL, "/"),
		publicRead:      cfg.PublicRead,
		keys:            keys,
		http:            &http.Client{},
		downloadTimeout: downloadTimeout,
	}, nil
}

// Store uploads an image and returns its public URL
func (s *S3Storage) Store(ctx context.Context, data []byte, folder string) (string, error) {
	contentType, ext, err := DetectImage(data)
	if err != nil {
		return "", err
	}
	if len(data) > MaxObjectBytes {
		return "", fmt.Errorf("object exceeds %d bytes", MaxObjectBytes)
	}

	key := s.keys.Key(folder, ext)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}
	if s.publicRead {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

// Fetch downloads an object. URLs under this bucket are read through the API,
// anything else over plain HTTP.
func (s *S3Storage) Fetch(ctx context.Context, url string) ([]byte, error) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return httpFetch(ctx, s.http, url, s.downloadTimeout)
	}

	if s.downloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.downloadTimeout)
		defer cancel()
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(url, prefix)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download from s3: %w", err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, fmt.Errorf("failed to read s3 object: %w", err)
	}
	return buf.Bytes(), nil
}

// Ping checks that the bucket is reachable
func (s *S3Storage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("s3 bucket %s not reachable: %w", s.bucket, err)
	}
	return nil
}

func (s *S3Storage) Name() string { return "s3" }
