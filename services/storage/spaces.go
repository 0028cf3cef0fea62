package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// SpacesClient handles S3-compatible object storage operations
type SpacesClient struct {
	s3Client *s3.S3
	bucket   string
	region   string
	endpoint string
	cdnURL   string
}

// SpacesConfig holds configuration for the Spaces client
type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	CDNURL    string
}

// MultipartUpload identifies an in-progress resumable upload
type MultipartUpload struct {
	Key      string `json:"key"`
	UploadID string `json:"upload_id"`
	Bucket   string `json:"bucket"`
}

// CompletedPart is one uploaded part of a multipart upload
type CompletedPart struct {
	PartNumber int64  `json:"part_number"`
	ETag       string `json:"etag"`
}

// NewSpacesClient creates a new Spaces client
func NewSpacesClient(config SpacesConfig) (*SpacesClient, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return &SpacesClient{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		region:   config.Region,
		endpoint: config.Endpoint,
		cdnURL:   config.CDNURL,
	}, nil
}

// Bucket returns the configured bucket name
func (s *SpacesClient) Bucket() string {
	return s.bucket
}

// UploadFile uploads a file and returns its public URL
func (s *SpacesClient) UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        aws.ReadSeekCloser(data),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return s.PublicURL(key), nil
}

// DeleteFile deletes a single object by key
func (s *SpacesClient) DeleteFile(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// DeleteFiles bulk-deletes objects by key
func (s *SpacesClient) DeleteFiles(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}

	_, err := s.s3Client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to bulk delete files: %w", err)
	}
	return nil
}

// PublicURL returns the public URL for a key
func (s *SpacesClient) PublicURL(key string) string {
	if s.cdnURL != "" {
		return fmt.Sprintf("%s/%s", s.cdnURL, key)
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpoint, key)
}

// SignedGetURL generates a presigned GET URL for temporary access
func (s *SpacesClient) SignedGetURL(key string, expiration time.Duration) (string, error) {
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}
	return url, nil
}

// CreateMultipartUpload starts a resumable upload to the given key.
// The file bytes never pass through this server; the client uploads
// each part directly against presigned part URLs.
func (s *SpacesClient) CreateMultipartUpload(ctx context.Context, key, contentType string) (*MultipartUpload, error) {
	out, err := s.s3Client.CreateMultipartUploadWithContext(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		ACL:         aws.String("private"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart upload: %w", err)
	}

	return &MultipartUpload{
		Key:      key,
		UploadID: aws.StringValue(out.UploadId),
		Bucket:   s.bucket,
	}, nil
}

// SignedPartURL generates a presigned PUT URL for one part of a
// multipart upload
func (s *SpacesClient) SignedPartURL(key, uploadID string, partNumber int64, expiration time.Duration) (string, error) {
	req, _ := s.s3Client.UploadPartRequest(&s3.UploadPartInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int64(partNumber),
	})

	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to presign part %d: %w", partNumber, err)
	}
	return url, nil
}

// CompleteMultipartUpload finishes a resumable upload from the parts
// the client acknowledged
func (s *SpacesClient) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []CompletedPart) error {
	completed := make([]*s3.CompletedPart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, &s3.CompletedPart{
			PartNumber: aws.Int64(p.PartNumber),
			ETag:       aws.String(p.ETag),
		})
	}

	_, err := s.s3Client.CompleteMultipartUploadWithContext(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &s3.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to complete multipart upload: %w", err)
	}
	return nil
}

// AbortMultipartUpload aborts an in-progress resumable upload
func (s *SpacesClient) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	_, err := s.s3Client.AbortMultipartUploadWithContext(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		return fmt.Errorf("failed to abort multipart upload: %w", err)
	}
	return nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// GenerateKey generates a unique storage key under the given prefix
func GenerateKey(prefix, filename string) string {
	timestamp := time.Now().Unix()
	safe := unsafeKeyChars.ReplaceAllString(filepath.Base(filename), "_")
	return fmt.Sprintf("%s/%d-%s", prefix, timestamp, safe)
}

// GetContentType returns the content type for a filename
func GetContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".zip":
		return "application/zip"
	case ".dmg":
		return "application/x-apple-diskimage"
	case ".exe", ".msi":
		return "application/x-msdownload"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
