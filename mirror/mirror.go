// Package mirror copies produced artifacts to object storage.
package mirror

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"go.uber.org/zap"

	"mediaconverter/shared/log"
)

type Mirror interface {
	// Put uploads the file at localPath and returns the object key.
	Put(ctx context.Context, requestID, localPath, contentType string) (string, error)
}

type Nop struct{}

func (Nop) Put(context.Context, string, string, string) (string, error) { return "", nil }

type S3 struct {
	client s3iface.S3API
	bucket string
	prefix string
	logger *zap.Logger
}

func NewS3(client s3iface.S3API, bucket, prefix string, logger *zap.Logger) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

func (m *S3) Put(ctx context.Context, requestID, localPath, contentType string) (string, error) {
	logger := log.LoggerWithTrace(ctx, m.logger)

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	key := path.Join(m.prefix, requestID, filepath.Base(localPath))
	_, err = m.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("Error mirroring artifact", zap.String("key", key), zap.Error(err))
		return "", err
	}

	logger.Debug("Mirrored artifact", zap.String("bucket", m.bucket), zap.String("key", key))
	return key, nil
}
