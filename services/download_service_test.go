package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Niwatda/softwareshop/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSigner struct {
	failAt int // part number to fail at, 0 = never
	calls  []string
}

func (f *fakeSigner) SignedGetURL(key string, expiration time.Duration) (string, error) {
	f.calls = append(f.calls, key)
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return "", errors.New("presign failed")
	}
	return fmt.Sprintf("https://signed.example.com/%s?exp=%d", key, int(expiration.Seconds())), nil
}

func TestParseDownloadPointerExternalURL(t *testing.T) {
	for _, pointer := range []string{
		"https://example.com/releases/app-2.0.0.dmg",
		"http://mirror.example.org/app.zip",
	} {
		target, err := ParseDownloadPointer(pointer)
		require.NoError(t, err)
		assert.Equal(t, model.DownloadTypeExternal, target.Type)
		// The URL must pass through unchanged
		assert.Equal(t, pointer, target.URL)
		assert.Empty(t, target.Key)
		assert.Empty(t, target.Chunks)
	}
}

func TestParseDownloadPointerChunked(t *testing.T) {
	pointer := `{"chunks":["programs/app.zip.part001","programs/app.zip.part002","programs/app.zip.part003"],"filename":"app-2.0.0.zip"}`

	target, err := ParseDownloadPointer(pointer)
	require.NoError(t, err)
	assert.Equal(t, model.DownloadTypeChunked, target.Type)
	assert.Equal(t, []string{
		"programs/app.zip.part001",
		"programs/app.zip.part002",
		"programs/app.zip.part003",
	}, target.Chunks)
	assert.Equal(t, "app-2.0.0.zip", target.Filename)
}

func TestParseDownloadPointerSingleKey(t *testing.T) {
	target, err := ParseDownloadPointer("programs/1700000000-app-2.0.0.zip")
	require.NoError(t, err)
	assert.Equal(t, model.DownloadTypeObject, target.Type)
	assert.Equal(t, "programs/1700000000-app-2.0.0.zip", target.Key)
}

func TestParseDownloadPointerEmpty(t *testing.T) {
	_, err := ParseDownloadPointer("")
	assert.ErrorIs(t, err, ErrNoDownload)

	_, err = ParseDownloadPointer("   ")
	assert.ErrorIs(t, err, ErrNoDownload)
}

func TestParseDownloadPointerMalformedJSONFallsBackToKey(t *testing.T) {
	target, err := ParseDownloadPointer(`{"chunks": not-json`)
	require.NoError(t, err)
	assert.Equal(t, model.DownloadTypeObject, target.Type)
}

func TestParseDownloadPointerJSONWithoutChunks(t *testing.T) {
	// A JSON object without a chunks array is not a chunked pointer
	target, err := ParseDownloadPointer(`{"filename":"x.zip"}`)
	require.NoError(t, err)
	assert.Equal(t, model.DownloadTypeObject, target.Type)
}

func TestDeriveDownloadType(t *testing.T) {
	assert.Equal(t, model.DownloadTypeExternal, DeriveDownloadType("https://example.com/a.zip"))
	assert.Equal(t, model.DownloadTypeChunked, DeriveDownloadType(`{"chunks":["a","b"]}`))
	assert.Equal(t, model.DownloadTypeObject, DeriveDownloadType("programs/a.zip"))
	assert.Equal(t, model.DownloadType(""), DeriveDownloadType(""))
}

func TestSignChunksOrderAndCount(t *testing.T) {
	signer := &fakeSigner{}
	keys := []string{"p/a.part001", "p/a.part002", "p/a.part003", "p/a.part004"}

	chunks, err := signChunks(signer, keys, 5*time.Minute)
	require.NoError(t, err)
	// Exactly one signed URL per chunk, in pointer order
	require.Len(t, chunks, len(keys))
	for i, chunk := range chunks {
		assert.Equal(t, i+1, chunk.Part)
		assert.Contains(t, chunk.URL, keys[i])
	}
	assert.Equal(t, keys, signer.calls)
}

func TestSignChunksPartialFailureAbortsAll(t *testing.T) {
	signer := &fakeSigner{failAt: 2}

	chunks, err := signChunks(signer, []string{"a", "b", "c"}, 5*time.Minute)
	require.Error(t, err)
	assert.Nil(t, chunks)
}

func TestFallbackFilename(t *testing.T) {
	assert.Equal(t, "app-2.0.0.zip", fallbackFilename("starter", []string{"programs/app-2.0.0.zip.part001"}))
	assert.Equal(t, "starter.zip", fallbackFilename("starter", nil))
	assert.Equal(t, "weird", fallbackFilename("starter", []string{"programs/weird.part9"}))
}

func TestReconcileTypeStaleTag(t *testing.T) {
	// A chunked tag left over from an earlier pointer must not win
	// over a pointer that no longer carries chunk keys; the result
	// would be a download with zero URLs
	target, err := ParseDownloadPointer("programs/app-2.0.0.zip")
	require.NoError(t, err)

	got := reconcileType(model.DownloadTypeChunked, target)
	assert.Equal(t, model.DownloadTypeObject, got)

	// Same for the other stale combinations
	assert.Equal(t, model.DownloadTypeObject, reconcileType(model.DownloadTypeExternal, target))

	external, err := ParseDownloadPointer("https://example.com/app.zip")
	require.NoError(t, err)
	assert.Equal(t, model.DownloadTypeExternal, reconcileType(model.DownloadTypeObject, external))
}

func TestReconcileTypeHonorsConsistentTag(t *testing.T) {
	chunked, err := ParseDownloadPointer(`{"chunks":["p/a.part001","p/a.part002"],"filename":"a.zip"}`)
	require.NoError(t, err)
	assert.Equal(t, model.DownloadTypeChunked, reconcileType(model.DownloadTypeChunked, chunked))

	object, err := ParseDownloadPointer("programs/app.zip")
	require.NoError(t, err)
	assert.Equal(t, model.DownloadTypeObject, reconcileType(model.DownloadTypeObject, object))

	// Untagged rows fall back to the parsed type
	assert.Equal(t, model.DownloadTypeObject, reconcileType("", object))
}
