// Package publish uploads produced package files to S3-compatible object storage.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/spachava753/packtool/internal/config"
)

// S3Publisher uploads files under <package>/<version>/<basename>.
type S3Publisher struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

// NewS3Publisher creates a publisher from settings. Endpoint, credentials and
// bucket are required.
func NewS3Publisher(cfg config.PublishSettings) (*S3Publisher, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Publisher{
		client:     client,
		bucketName: bucket,
		region:     region,
	}, nil
}

func (p *S3Publisher) ensureBucket(ctx context.Context) error {
	p.initOnce.Do(func() {
		exists, err := p.client.BucketExists(ctx, p.bucketName)
		if err != nil {
			p.initErr = err
			return
		}
		if exists {
			return
		}
		p.initErr = p.client.MakeBucket(ctx, p.bucketName, minio.MakeBucketOptions{Region: p.region})
	})
	return p.initErr
}

// Publish uploads file and returns its object URI.
func (p *S3Publisher) Publish(ctx context.Context, pkg, version, file string) (string, error) {
	if err := p.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key := ObjectKey(pkg, version, file)
	info, err := p.client.FPutObject(ctx, p.bucketName, key, file, minio.PutObjectOptions{
		ContentType: contentType(file),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", file, err)
	}

	slog.Info("published", "key", key, "bucket", p.bucketName, "size", info.Size)
	return fmt.Sprintf("s3://%s/%s", p.bucketName, key), nil
}

// ObjectKey returns the storage key for a package file.
func ObjectKey(pkg, version, file string) string {
	return strings.TrimSpace(pkg) + "/" + strings.TrimSpace(version) + "/" + filepath.Base(file)
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".zip":
		return "application/zip"
	case ".pdsc", ".xml":
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}
