package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ClientMinio interface {
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (info minio.UploadInfo, err error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type MinioS3Client struct {
	endpoint   string
	bucketName string
	client     ClientMinio
}

const defaultContentType = "application/octet-stream"

// presigned links stay valid for a week, the minio maximum
const presignExpiry = 7 * 24 * time.Hour

// NewMinioS3Client creates a new MinioS3Client instance.
func NewMinioS3Client(endpoint, accessKeyID, secretAccessKey, bucketName string, useSSL bool) (*MinioS3Client, error) {
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Printf("can not create minio client %v for endpoint %s", err, endpoint)
		return nil, fmt.Errorf("failed to create Minio S3 client: %v", err)
	}

	return &MinioS3Client{
		endpoint:   endpoint,
		bucketName: bucketName,
		client:     minioClient,
	}, nil
}

// UploadFile uploads a file to the configured S3 bucket.
func (s3 *MinioS3Client) UploadFile(objectName string, object io.Reader, size int64) error {
	_, err := s3.client.PutObject(context.Background(),
		s3.bucketName,
		objectName,
		object,
		size,
		minio.PutObjectOptions{ContentType: defaultContentType})
	if err != nil {
		return fmt.Errorf("can not upload %s: %v", objectName, err)
	}
	return nil
}

// PresignedURL generates a time-limited download link for an object.
func (s3 *MinioS3Client) PresignedURL(objectName string) (*url.URL, error) {
	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", fmt.Sprintf("attachment; filename=\"%s\"", objectName))
	presignedURL, err := s3.client.PresignedGetObject(context.Background(),
		s3.bucketName,
		objectName,
		presignExpiry,
		reqParams)
	if err != nil {
		return nil, fmt.Errorf("can not presign %s: %v", objectName, err)
	}
	return presignedURL, nil
}

func (s3 *MinioS3Client) DeleteFile(objectName string) error {
	opts := minio.RemoveObjectOptions{}
	if err := s3.client.RemoveObject(context.Background(), s3.bucketName, objectName, opts); err != nil {
		log.Printf("remove %s/%s: %v", s3.bucketName, objectName, err)
		return fmt.Errorf("can not remove %s: %v", objectName, err)
	}
	return nil
}
