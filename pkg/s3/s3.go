package s3

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Config struct {
	Bucket          string `envconfig:"S3_BUCKET"`
	Region          string `envconfig:"S3_REGION" default:"us-east-1"`
	AccessKeyID     string `envconfig:"S3_ACCESS_KEY_ID" json:"-"`
	SecretAccessKey string `envconfig:"S3_SECRET_ACCESS_KEY" json:"-"`
	Endpoint        string `envconfig:"S3_ENDPOINT"`
}

// CoverStore keeps book cover images in a bucket and hands back public urls.
type CoverStore struct {
	client *s3.Client
	cfg    Config
}

func NewCoverStore(ctx context.Context, cfg Config) (*CoverStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3_BUCKET is required")
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &CoverStore{client: client, cfg: cfg}, nil
}

// Upload stores the image under covers/<bookID>/ and returns its url.
func (s *CoverStore) Upload(ctx context.Context, bookID, filename, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("covers/%s/%s%s", bookID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "put object")
	}
	return s.URL(key), nil
}

func (s *CoverStore) URL(key string) string {
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
