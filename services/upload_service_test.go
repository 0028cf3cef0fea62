package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Niwatda/softwareshop/services/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	createdKey   string
	completed    []storage.CompletedPart
	abortedKey   string
	abortedID    string
	signedParts  []int64
	uploadedKeys []string
}

func (f *fakeObjectStore) Bucket() string { return "test-bucket" }

func (f *fakeObjectStore) UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	f.uploadedKeys = append(f.uploadedKeys, key)
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeObjectStore) CreateMultipartUpload(ctx context.Context, key, contentType string) (*storage.MultipartUpload, error) {
	f.createdKey = key
	return &storage.MultipartUpload{Key: key, UploadID: "upload-123", Bucket: "test-bucket"}, nil
}

func (f *fakeObjectStore) SignedPartURL(key, uploadID string, partNumber int64, expiration time.Duration) (string, error) {
	f.signedParts = append(f.signedParts, partNumber)
	return fmt.Sprintf("https://signed.example.com/%s?partNumber=%d&uploadId=%s", key, partNumber, uploadID), nil
}

func (f *fakeObjectStore) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []storage.CompletedPart) error {
	f.completed = parts
	return nil
}

func (f *fakeObjectStore) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	f.abortedKey = key
	f.abortedID = uploadID
	return nil
}

func TestCreateProgramUpload(t *testing.T) {
	store := &fakeObjectStore{}
	svc := NewUploadService(store)

	creds, err := svc.CreateProgramUpload(context.Background(), "My App v2.zip")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(creds.Key, "programs/"), "key should live under the programs prefix, got %s", creds.Key)
	assert.NotContains(t, creds.Key, " ", "key must not contain spaces")
	assert.Equal(t, "upload-123", creds.UploadID)
	assert.Equal(t, "test-bucket", creds.Bucket)
}

func TestSignPartURLsOrdered(t *testing.T) {
	store := &fakeObjectStore{}
	svc := NewUploadService(store)

	urls, err := svc.SignPartURLs(context.Background(), "programs/a.zip", "upload-123", []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, urls, 3)
	for i, u := range urls {
		assert.Equal(t, int64(i+1), u.PartNumber)
		assert.Contains(t, u.URL, fmt.Sprintf("partNumber=%d", i+1))
	}
}

func TestSignPartURLsValidation(t *testing.T) {
	svc := NewUploadService(&fakeObjectStore{})

	_, err := svc.SignPartURLs(context.Background(), "k", "u", nil)
	assert.ErrorIs(t, err, ErrNoParts)

	_, err = svc.SignPartURLs(context.Background(), "k", "u", []int64{0})
	assert.Error(t, err)

	_, err = svc.SignPartURLs(context.Background(), "k", "u", []int64{10001})
	assert.Error(t, err)
}

func TestCompleteProgramUpload(t *testing.T) {
	store := &fakeObjectStore{}
	svc := NewUploadService(store)

	parts := []storage.CompletedPart{
		{PartNumber: 1, ETag: `"etag-1"`},
		{PartNumber: 2, ETag: `"etag-2"`},
	}
	err := svc.CompleteProgramUpload(context.Background(), "programs/a.zip", "upload-123", parts)
	require.NoError(t, err)
	assert.Equal(t, parts, store.completed)

	err = svc.CompleteProgramUpload(context.Background(), "programs/a.zip", "upload-123", nil)
	assert.ErrorIs(t, err, ErrNoParts)
}

func TestAbortProgramUpload(t *testing.T) {
	store := &fakeObjectStore{}
	svc := NewUploadService(store)

	err := svc.AbortProgramUpload(context.Background(), "programs/a.zip", "upload-123")
	require.NoError(t, err)
	assert.Equal(t, "programs/a.zip", store.abortedKey)
	assert.Equal(t, "upload-123", store.abortedID)
}
