package slipvalidation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffContentType(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
	webp := append([]byte("RIFF"), []byte{0x10, 0x00, 0x00, 0x00, 'W', 'E', 'B', 'P'}...)
	pdf := []byte("%PDF-1.7 ...")

	assert.Equal(t, "image/jpeg", SniffContentType(jpeg))
	assert.Equal(t, "image/png", SniffContentType(png))
	assert.Equal(t, "image/webp", SniffContentType(webp))
	assert.Equal(t, "application/pdf", SniffContentType(pdf))

	// RIFF without the WEBP marker is not accepted
	assert.Equal(t, "", SniffContentType([]byte("RIFF1234WAVE")))
	assert.Equal(t, "", SniffContentType([]byte("GIF89a")))
	assert.Equal(t, "", SniffContentType(nil))
}

func TestValidateSlipBytesRejectsOversize(t *testing.T) {
	limits := SlipLimits{MaxFileSizeMB: 1, MaxPDFPages: 5}
	big := make([]byte, 1*1024*1024+1)
	copy(big, []byte{0xFF, 0xD8, 0xFF})

	result, err := ValidateSlipBytes(big, limits)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Error, "exceeds")
}

func TestValidateSlipBytesRejectsUnknownType(t *testing.T) {
	result, err := ValidateSlipBytes([]byte("plain text, not an image"), DefaultLimits)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Error)
}

func TestValidateSlipBytesAcceptsImage(t *testing.T) {
	content := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x42}, 128)...)

	result, err := ValidateSlipBytes(content, DefaultLimits)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "image/jpeg", result.ContentType)
	assert.Equal(t, int64(len(content)), result.FileSize)
}

func TestSanitizePDFStripsTrailingGarbage(t *testing.T) {
	doc := []byte("%PDF-1.4 body %%EOF\ngarbage after the marker")
	cleaned := sanitizePDF(doc)
	assert.True(t, bytes.HasSuffix(cleaned, []byte("%%EOF\n")))

	// No marker: untouched
	noMarker := []byte("%PDF-1.4 body")
	assert.Equal(t, noMarker, sanitizePDF(noMarker))
}
