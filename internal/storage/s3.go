package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Store struct {
	client     *s3.Client
	uploader   *manager.Uploader
	presigner  *s3.PresignClient
	bucket     string
	region     string
	endpoint   string
	prefix     string
	publicRead bool
	presignTTL time.Duration
}

type S3Options struct {
	Region     string
	Bucket     string
	Endpoint   string // MinIO or another S3 compatible endpoint
	Prefix     string
	PublicRead bool
	PresignTTL time.Duration
}

func NewS3Store(ctx context.Context, o S3Options) (*S3Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(o.Region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(opts *s3.Options) {
		if o.Endpoint != "" {
			opts.BaseEndpoint = aws.String(o.Endpoint)
			opts.UsePathStyle = true
		}
	})
	if o.PresignTTL <= 0 {
		o.PresignTTL = 10 * time.Minute
	}
	return &S3Store{
		client:     client,
		uploader:   manager.NewUploader(client),
		presigner:  s3.NewPresignClient(client),
		bucket:     o.Bucket,
		region:     o.Region,
		endpoint:   strings.TrimRight(o.Endpoint, "/"),
		prefix:     strings.Trim(o.Prefix, "/"),
		publicRead: o.PublicRead,
		presignTTL: o.PresignTTL,
	}, nil
}

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// Save uploads the object. Public buckets get a stable URL, private ones a presigned GET.
func (s *S3Store) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := s.key(name)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}
	if s.publicRead {
		return s.publicURL(key), nil
	}
	return s.PresignURL(ctx, key)
}

func (s *S3Store) publicURL(key string) string {
	escaped := url.PathEscape(key)
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
}

func (s *S3Store) PresignURL(ctx context.Context, key string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// Delete removes the object behind a URL produced by Save.
func (s *S3Store) Delete(ctx context.Context, rawURL string) error {
	key := s.keyFromURL(rawURL)
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Store) keyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	p := strings.TrimPrefix(u.Path, "/")
	if s.endpoint != "" {
		p = strings.TrimPrefix(p, s.bucket+"/")
	}
	key, err := url.PathUnescape(p)
	if err != nil {
		return ""
	}
	if s.prefix != "" && !strings.HasPrefix(key, s.prefix+"/") {
		return ""
	}
	return key
}
