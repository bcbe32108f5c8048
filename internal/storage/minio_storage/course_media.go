package minio_storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// CourseMediaStorage holds video files and thumbnails for course content.
// Object keys carry a random uuid suffix so re-uploads never collide;
// uploads are one-shot, a failed transfer is simply retried from zero.
type CourseMediaStorage struct {
	storage      *MinioStorage
	bucket       string
	presignedTTL time.Duration
}

func NewCourseMediaStorage(storage *MinioStorage, bucketName string, presignedTTL time.Duration) (*CourseMediaStorage, error) {
	exists, err := storage.client.BucketExists(context.Background(), bucketName)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err = storage.client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &CourseMediaStorage{storage: storage, bucket: bucketName, presignedTTL: presignedTTL}, nil
}

func (s *CourseMediaStorage) put(ctx context.Context, objectKey, filename string, reader io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}
	_, err := s.storage.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		reader,
		size,
		minio.PutObjectOptions{ContentType: contentType},
	)
	return err
}

func (s *CourseMediaStorage) UploadThumbnail(
	ctx context.Context,
	courseID uuid.UUID,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (objectKey string, err error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	objectKey = fmt.Sprintf("courses/%s/thumb-%s%s", courseID.String(), uuid.NewString(), ext)
	if err = s.put(ctx, objectKey, filename, reader, size, contentType); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *CourseMediaStorage) UploadVideo(
	ctx context.Context,
	courseID uuid.UUID,
	filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (objectKey string, err error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	objectKey = fmt.Sprintf("courses/%s/video-%s%s", courseID.String(), uuid.NewString(), ext)
	if err = s.put(ctx, objectKey, filename, reader, size, contentType); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *CourseMediaStorage) GetURL(ctx context.Context, objectKey string) (string, error) {
	reqParams := make(url.Values)
	u, err := s.storage.client.PresignedGetObject(
		ctx,
		s.bucket,
		objectKey,
		s.presignedTTL,
		reqParams,
	)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *CourseMediaStorage) Delete(ctx context.Context, objectKey string) error {
	return s.storage.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
