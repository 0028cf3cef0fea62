package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Niwatda/softwareshop/model"
	"gorm.io/gorm"
)

var (
	// ErrNotEntitled is returned when the user has no completed order
	// for the requested product.
	ErrNotEntitled = errors.New("no completed purchase for this product")

	// ErrNoDownload is returned when the product has no download
	// pointer configured.
	ErrNoDownload = errors.New("product has no download configured")
)

// DefaultDownloadExpiry is how long signed download URLs stay valid.
const DefaultDownloadExpiry = 5 * time.Minute

// ObjectSigner mints time-limited GET URLs for private objects.
// *storage.SpacesClient satisfies this.
type ObjectSigner interface {
	SignedGetURL(key string, expiration time.Duration) (string, error)
}

// DownloadTarget is the parsed form of a product's download pointer.
// Exactly one of URL, Key or Chunks is meaningful, selected by Type.
type DownloadTarget struct {
	Type     model.DownloadType
	URL      string   // external: redirect as-is
	Key      string   // object: single private object key
	Chunks   []string // chunked: ordered private object keys
	Filename string   // chunked: client-side reassembly filename
}

// chunkedPointer is the stored JSON shape for split multi-part artifacts.
type chunkedPointer struct {
	Chunks   []string `json:"chunks"`
	Filename string   `json:"filename"`
}

// ParseDownloadPointer classifies a raw download pointer string.
// An http(s) URL is an external redirect, a JSON object with a
// non-empty chunks array is a chunked artifact, anything else is a
// single object key in the private bucket.
func ParseDownloadPointer(pointer string) (*DownloadTarget, error) {
	pointer = strings.TrimSpace(pointer)
	if pointer == "" {
		return nil, ErrNoDownload
	}

	if strings.HasPrefix(pointer, "http://") || strings.HasPrefix(pointer, "https://") {
		return &DownloadTarget{Type: model.DownloadTypeExternal, URL: pointer}, nil
	}

	if strings.HasPrefix(pointer, "{") {
		var parsed chunkedPointer
		if err := json.Unmarshal([]byte(pointer), &parsed); err == nil && len(parsed.Chunks) > 0 {
			return &DownloadTarget{
				Type:     model.DownloadTypeChunked,
				Chunks:   parsed.Chunks,
				Filename: parsed.Filename,
			}, nil
		}
		// Malformed JSON falls through and is treated as an object key,
		// which fails at fetch time rather than hiding the product.
	}

	return &DownloadTarget{Type: model.DownloadTypeObject, Key: pointer}, nil
}

// DeriveDownloadType returns the stored type tag for a pointer, so the
// variant is classified once at write time instead of on every request.
func DeriveDownloadType(pointer string) model.DownloadType {
	target, err := ParseDownloadPointer(pointer)
	if err != nil {
		return ""
	}
	return target.Type
}

// SignedChunk is one time-limited URL of a chunked download.
type SignedChunk struct {
	Part int    `json:"part"`
	URL  string `json:"url"`
}

// DownloadResult is what the broker hands back to the client. External
// and single-object downloads redirect; chunked downloads return the
// ordered URL list plus the reassembly filename.
type DownloadResult struct {
	Type        model.DownloadType `json:"type"`
	RedirectURL string             `json:"-"`
	Chunks      []SignedChunk      `json:"chunks,omitempty"`
	Filename    string             `json:"filename,omitempty"`
	ExpiresIn   int                `json:"expires_in,omitempty"`
}

// DownloadService brokers access to purchased artifacts. Entitlement
// is re-checked against the orders table on every request; revoking an
// order cuts off future downloads immediately.
type DownloadService struct {
	db     *gorm.DB
	signer ObjectSigner
	expiry time.Duration
}

// NewDownloadService creates a download broker with the default URL expiry.
func NewDownloadService(db *gorm.DB, signer ObjectSigner) *DownloadService {
	return &DownloadService{
		db:     db,
		signer: signer,
		expiry: DefaultDownloadExpiry,
	}
}

// IsEntitled reports whether the user owns a completed order for the product.
func (s *DownloadService) IsEntitled(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ? AND product_id = ? AND status = ?", userID, productID, model.OrderStatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check entitlement: %w", err)
	}
	return count > 0, nil
}

// Resolve checks entitlement and resolves the product's download
// pointer into either a redirect URL or a set of signed chunk URLs.
func (s *DownloadService) Resolve(ctx context.Context, userID, productID uint) (*DownloadResult, error) {
	entitled, err := s.IsEntitled(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !entitled {
		return nil, ErrNotEntitled
	}

	var product model.Product
	if err := s.db.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEntitled
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	target, err := ParseDownloadPointer(product.DownloadPointer)
	if err != nil {
		return nil, err
	}

	// Rows written before type tagging existed are classified by the
	// parser above; rows written after carry the stored tag.
	target.Type = reconcileType(product.DownloadType, target)

	switch target.Type {
	case model.DownloadTypeExternal:
		return &DownloadResult{Type: target.Type, RedirectURL: target.URL}, nil

	case model.DownloadTypeChunked:
		chunks, err := signChunks(s.signer, target.Chunks, s.expiry)
		if err != nil {
			return nil, err
		}

		filename := target.Filename
		if filename == "" {
			filename = fallbackFilename(product.Slug, target.Chunks)
		}

		return &DownloadResult{
			Type:      target.Type,
			Chunks:    chunks,
			Filename:  filename,
			ExpiresIn: int(s.expiry.Seconds()),
		}, nil

	default:
		url, err := s.signer.SignedGetURL(target.Key, s.expiry)
		if err != nil {
			return nil, fmt.Errorf("failed to sign download URL: %w", err)
		}
		return &DownloadResult{Type: model.DownloadTypeObject, RedirectURL: url}, nil
	}
}

// reconcileType picks between the stored type tag and the type the
// parser derived from the pointer. The tag wins only while the parsed
// target carries the field that variant needs; a tag gone stale after
// a pointer edit would otherwise serve an empty download.
func reconcileType(tagged model.DownloadType, target *DownloadTarget) model.DownloadType {
	switch tagged {
	case model.DownloadTypeExternal:
		if target.URL != "" {
			return tagged
		}
	case model.DownloadTypeChunked:
		if len(target.Chunks) > 0 {
			return tagged
		}
	case model.DownloadTypeObject:
		if target.Key != "" {
			return tagged
		}
	}
	return target.Type
}

// signChunks presigns every chunk key in order. Any failure aborts the
// whole set; a partial chunk list is useless to the client.
func signChunks(signer ObjectSigner, keys []string, expiry time.Duration) ([]SignedChunk, error) {
	chunks := make([]SignedChunk, 0, len(keys))
	for i, key := range keys {
		url, err := signer.SignedGetURL(key, expiry)
		if err != nil {
			return nil, fmt.Errorf("failed to sign chunk %d: %w", i+1, err)
		}
		chunks = append(chunks, SignedChunk{Part: i + 1, URL: url})
	}
	return chunks, nil
}

// fallbackFilename names a chunked artifact when the pointer omits one.
// Chunk keys conventionally end in ".partNNN"; strip that suffix.
func fallbackFilename(slug string, chunks []string) string {
	if len(chunks) > 0 {
		base := filepath.Base(chunks[0])
		if i := strings.LastIndex(base, ".part"); i > 0 {
			return base[:i]
		}
	}
	return slug + ".zip"
}
