package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"

	"github.com/Apurer/petguard-api/internal/domains/pets/ports"
)

var _ ports.PhotoStore = (*PhotoStore)(nil)

// Config describes the bucket pet photos are written to. Endpoint targets MinIO or another
// S3-compatible server and switches the client to path-style addressing.
type Config struct {
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	Endpoint      string
	UseSSL        bool
	PublicBaseURL string
	MaxBytes      int64
}

// PhotoStore writes pet photos to S3.
type PhotoStore struct {
	cfg      Config
	client   *s3.S3
	uploader *s3manager.Uploader
	now      func() time.Time
}

// NewPhotoStore opens an AWS session for cfg.
func NewPhotoStore(cfg Config) (*PhotoStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("s3 credentials are not configured")
	}
	awsConfig := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.DisableSSL = aws.Bool(!cfg.UseSSL)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	client := s3.New(sess)
	return &PhotoStore{
		cfg:      cfg,
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
		now:      time.Now,
	}, nil
}

// Put uploads content under a fresh key of the form pets/YYYY/MM/DD/<uuid><ext>.
func (s *PhotoStore) Put(ctx context.Context, name, contentType string, content []byte) (*ports.StoredPhoto, error) {
	if s.cfg.MaxBytes > 0 && int64(len(content)) > s.cfg.MaxBytes {
		return nil, ports.ErrPhotoTooLarge
	}
	key := s.storageKey(name)
	input := &s3manager.UploadInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	result, err := s.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}
	url := result.Location
	if base := strings.TrimRight(s.cfg.PublicBaseURL, "/"); base != "" {
		url = base + "/" + key
	}
	return &ports.StoredPhoto{Key: key, Size: int64(len(content)), URL: url}, nil
}

// Delete removes the object; S3 treats unknown keys as already deleted.
func (s *PhotoStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

func (s *PhotoStore) storageKey(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return fmt.Sprintf("pets/%s/%s%s", s.now().UTC().Format("2006/01/02"), uuid.NewString(), ext)
}
