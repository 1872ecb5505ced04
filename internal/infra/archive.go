package infra

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/config"
)

const backupKeyPrefix = "backups/"

// S3Archiver uploads backup documents to a bucket under backups/.
type S3Archiver struct {
	client s3iface.S3API
	bucket string
}

func NewS3Archiver(cfg *config.Config) (*S3Archiver, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &S3Archiver{client: s3.New(sess), bucket: cfg.AWSS3Bucket}, nil
}

func (a *S3Archiver) Store(ctx context.Context, filename string, data []byte) (string, error) {
	key := backupKeyPrefix + filename
	_, err := a.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

// LocalArchiver writes backup documents into a directory. Used when no
// S3 credentials are configured.
type LocalArchiver struct{ dir string }

func NewLocalArchiver(dir string) *LocalArchiver { return &LocalArchiver{dir: dir} }

func (a *LocalArchiver) Store(_ context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return "", fmt.Errorf("archive: create dir: %w", err)
	}
	path := filepath.Join(a.dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("archive: write: %w", err)
	}
	return path, nil
}
