package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage stores downloaded artifacts in an S3 bucket, for seeding
// air-gapped mirrors without touching the local disk.
type MinioStorage struct {
	bucket  string
	client  *minio.Client
	context context.Context
}

func NewMinio(endpoint, bucket, accessKey, secretKey string) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: true,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorage{bucket: bucket, client: client, context: context.Background()}, nil
}

func (ms *MinioStorage) Exists(path string) bool {
	if _, err := ms.client.StatObject(ms.context, ms.bucket, path, minio.StatObjectOptions{}); err != nil {
		return false
	}
	return true
}

func (ms *MinioStorage) ReadFile(path string) ([]byte, error) {
	object, err := ms.client.GetObject(ms.context, ms.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return io.ReadAll(object)
}

func (ms *MinioStorage) WriteFile(path string, data []byte) error {
	reader := bytes.NewReader(data)
	if _, err := ms.client.PutObject(ms.context, ms.bucket, path, reader, reader.Size(), minio.PutObjectOptions{}); err != nil {
		return err
	}
	return nil
}
