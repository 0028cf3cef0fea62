package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	key := GenerateKey(PrefixPrograms, "My App (v2).zip")
	assert.True(t, strings.HasPrefix(key, "programs/"))
	assert.NotContains(t, key, " ")
	assert.NotContains(t, key, "(")
	assert.True(t, strings.HasSuffix(key, ".zip"))

	// Path components in the filename must not escape the prefix
	key = GenerateKey(PrefixSlips, "../../etc/passwd")
	assert.True(t, strings.HasPrefix(key, "slips/"))
	assert.NotContains(t, key, "..")
	assert.NotContains(t, strings.TrimPrefix(key, "slips/"), "/")
}

func TestGetContentType(t *testing.T) {
	cases := map[string]string{
		"a.jpg":     "image/jpeg",
		"a.JPEG":    "image/jpeg",
		"a.png":     "image/png",
		"a.webp":    "image/webp",
		"a.pdf":     "application/pdf",
		"a.zip":     "application/zip",
		"a.dmg":     "application/x-apple-diskimage",
		"a.exe":     "application/x-msdownload",
		"a.unknown": "application/octet-stream",
		"noext":     "application/octet-stream",
	}
	for filename, want := range cases {
		assert.Equal(t, want, GetContentType(filename), "GetContentType(%q)", filename)
	}
}

func TestPublicURL(t *testing.T) {
	withCDN := &SpacesClient{bucket: "shop", endpoint: "sgp1.digitaloceanspaces.com", cdnURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/images/a.png", withCDN.PublicURL("images/a.png"))

	withoutCDN := &SpacesClient{bucket: "shop", endpoint: "sgp1.digitaloceanspaces.com"}
	assert.Equal(t, "https://shop.sgp1.digitaloceanspaces.com/images/a.png", withoutCDN.PublicURL("images/a.png"))
}
