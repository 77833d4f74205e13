package filestore

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// S3Store implements Store on top of an S3 bucket using presigned URLs.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	prefix  string
	expiry  time.Duration
	log     *zap.Logger
}

// S3Config holds the settings for NewS3.
type S3Config struct {
	Region string
	Bucket string
	// Prefix is prepended to every object key, e.g. "uploads".
	Prefix string
	// Expiry bounds how long presigned URLs stay valid.
	Expiry time.Duration
}

// NewS3 connects to S3 using the ambient AWS credential chain.
func NewS3(ctx context.Context, cfg S3Config, log *zap.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)

	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		expiry:  expiry,
		log:     log,
	}, nil
}

// newKey generates an object key partitioned by year and month so bucket
// listings stay manageable.
func (s *S3Store) newKey(now time.Time) string {
	return path.Join(s.prefix, now.Format("2006"), now.Format("01"), uuid.New().String())
}

func (s *S3Store) PresignUpload(ctx context.Context, contentType string) (PresignedUpload, error) {
	now := time.Now().UTC()
	key := s.newKey(now)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("presign put %s: %w", key, err)
	}

	s.log.Debug("presigned upload",
		zap.String("key", key),
		zap.String("content_type", contentType),
	)
	return PresignedUpload{
		Key:       key,
		URL:       req.URL,
		ExpiresAt: now.Add(s.expiry),
	}, nil
}

func (s *S3Store) URL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
