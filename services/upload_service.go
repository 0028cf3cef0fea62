package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/Niwatda/softwareshop/services/storage"
	"github.com/Niwatda/softwareshop/utils/slipvalidation"
)

var (
	// ErrNoParts is returned when a part URL request names no parts.
	ErrNoParts = errors.New("at least one part number is required")

	// ErrImageTooLarge is returned for image uploads over the size cap.
	ErrImageTooLarge = errors.New("image exceeds the maximum allowed size")

	// ErrInvalidImage is returned when the uploaded bytes are not a
	// recognized image format.
	ErrInvalidImage = errors.New("file is not a valid image")
)

const (
	// MaxImageSizeMB caps product and page images uploaded through the server.
	MaxImageSizeMB = 10

	// PartURLExpiry is how long presigned part upload URLs stay valid.
	// Parts are large, so this is longer than download URL expiry.
	PartURLExpiry = 30 * time.Minute
)

// ObjectStore is the slice of the storage client the upload service
// needs. *storage.SpacesClient satisfies this.
type ObjectStore interface {
	Bucket() string
	UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	CreateMultipartUpload(ctx context.Context, key, contentType string) (*storage.MultipartUpload, error)
	SignedPartURL(key, uploadID string, partNumber int64, expiration time.Duration) (string, error)
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []storage.CompletedPart) error
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error
}

// UploadService moves small files (slips, images) through the server
// and mints multipart credentials for large program artifacts, which
// the admin's client uploads directly against presigned part URLs.
type UploadService struct {
	store ObjectStore
}

// NewUploadService creates a new upload service
func NewUploadService(store ObjectStore) *UploadService {
	return &UploadService{store: store}
}

// SlipRejectedError means the uploaded slip failed validation; the
// reason is safe to show to the uploader.
type SlipRejectedError struct {
	Reason string
}

func (e *SlipRejectedError) Error() string {
	return e.Reason
}

// UploadSlip validates and stores a payment slip. The slip is readable
// by admins reviewing the order, so it goes to the public bucket path
// under an unguessable timestamped key.
func (s *UploadService) UploadSlip(ctx context.Context, file *multipart.FileHeader) (string, error) {
	result, content, err := slipvalidation.ValidateSlipFile(file, slipvalidation.DefaultLimits)
	if err != nil {
		return "", err
	}
	if !result.Valid {
		return "", &SlipRejectedError{Reason: result.Error}
	}

	key := storage.GenerateKey(storage.PrefixSlips, file.Filename)
	url, err := s.store.UploadFile(ctx, key, bytes.NewReader(content), result.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to store slip: %w", err)
	}
	return url, nil
}

// UploadImage stores a product or page image and returns its public URL.
func (s *UploadService) UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > MaxImageSizeMB*1024*1024 {
		return "", ErrImageTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	contentType := slipvalidation.SniffContentType(content)
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return "", ErrInvalidImage
	}

	key := storage.GenerateKey(storage.PrefixImages, file.Filename)
	url, err := s.store.UploadFile(ctx, key, bytes.NewReader(content), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return url, nil
}

// UploadCredentials let an admin client push a large artifact straight
// to object storage without the bytes passing through this server.
type UploadCredentials struct {
	Key      string `json:"key"`
	UploadID string `json:"upload_id"`
	Bucket   string `json:"bucket"`
}

// CreateProgramUpload starts a multipart upload for a program artifact
// and returns the credentials the client needs to request part URLs.
func (s *UploadService) CreateProgramUpload(ctx context.Context, filename string) (*UploadCredentials, error) {
	key := storage.GenerateKey(storage.PrefixPrograms, filename)
	contentType := storage.GetContentType(filename)

	upload, err := s.store.CreateMultipartUpload(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	return &UploadCredentials{
		Key:      upload.Key,
		UploadID: upload.UploadID,
		Bucket:   upload.Bucket,
	}, nil
}

// SignedPartURL is one presigned PUT URL for a multipart part.
type SignedPartURL struct {
	PartNumber int64  `json:"part_number"`
	URL        string `json:"url"`
}

// SignPartURLs presigns PUT URLs for the requested part numbers, in
// the order they were asked for.
func (s *UploadService) SignPartURLs(ctx context.Context, key, uploadID string, partNumbers []int64) ([]SignedPartURL, error) {
	if len(partNumbers) == 0 {
		return nil, ErrNoParts
	}

	urls := make([]SignedPartURL, 0, len(partNumbers))
	for _, n := range partNumbers {
		if n < 1 || n > 10000 {
			return nil, fmt.Errorf("part number %d out of range", n)
		}
		url, err := s.store.SignedPartURL(key, uploadID, n, PartURLExpiry)
		if err != nil {
			return nil, err
		}
		urls = append(urls, SignedPartURL{PartNumber: n, URL: url})
	}
	return urls, nil
}

// CompleteProgramUpload finishes a multipart upload from the ETags the
// client collected while uploading parts.
func (s *UploadService) CompleteProgramUpload(ctx context.Context, key, uploadID string, parts []storage.CompletedPart) error {
	if len(parts) == 0 {
		return ErrNoParts
	}
	return s.store.CompleteMultipartUpload(ctx, key, uploadID, parts)
}

// AbortProgramUpload discards an in-progress multipart upload so the
// bucket does not accumulate orphaned parts.
func (s *UploadService) AbortProgramUpload(ctx context.Context, key, uploadID string) error {
	return s.store.AbortMultipartUpload(ctx, key, uploadID)
}
