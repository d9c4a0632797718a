package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/rniedson/brbandeiras-api/config"
)

// FileStorage is the contract the workflow core has with physical file
// storage. The medium (S3, local disk, in-memory mock) is irrelevant to the
// callers; writes must be durable before they return.
type FileStorage interface {
	// Write stores the content under key, creating any intermediate namespace.
	Write(key string, r io.Reader) error

	// Delete removes the file under key. Deleting a missing key is not an error.
	Delete(key string) error

	// URL returns an address a client can fetch the file from.
	URL(key string) (string, error)
}

var fileStorageInstance FileStorage

// InitFileStorage initializes the configured storage backend.
func InitFileStorage(cfg *appConfig.Config) (FileStorage, error) {
	switch cfg.StorageBackend {
	case "s3":
		storage, err := NewS3Storage(cfg)
		if err != nil {
			return nil, err
		}
		fileStorageInstance = storage
	default:
		fileStorageInstance = NewLocalStorage(cfg.UploadDir)
	}
	return fileStorageInstance, nil
}

// GetFileStorage returns the initialized storage instance
func GetFileStorage() FileStorage {
	return fileStorageInstance
}

// SetFileStorage sets the storage instance (primarily for testing)
func SetFileStorage(storage FileStorage) {
	fileStorageInstance = storage
}

// S3Storage implements FileStorage on AWS S3
type S3Storage struct {
	client *s3.Client
	bucket string
}

// NewS3Storage creates the S3 backend with AWS credentials from config
func NewS3Storage(cfg *appConfig.Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	return &S3Storage{
		client: client,
		bucket: cfg.AWSS3Bucket,
	}, nil
}

// Write uploads the content to S3 under key
func (s *S3Storage) Write(key string, r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read file content: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

// Delete removes the object from S3
func (s *S3Storage) Delete(key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// URL generates a presigned URL for the object, valid for 1 hour
func (s *S3Storage) URL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)

	request, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}
