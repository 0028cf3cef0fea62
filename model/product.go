package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DownloadType tags the shape of a product's download pointer.
// Stored alongside the pointer so the download broker does not have to
// sniff the pointer on every request; rows written before the tag existed
// carry an empty type and are sniffed at read time.
type DownloadType string

const (
	DownloadTypeExternal DownloadType = "external" // absolute URL, redirect as-is
	DownloadTypeObject   DownloadType = "object"   // single storage key
	DownloadTypeChunked  DownloadType = "chunked"  // JSON list of chunk keys
)

// Product represents a digital good in the catalog
type Product struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`
	Name            string         `gorm:"not null" json:"name"`
	Description     string         `gorm:"type:text;not null" json:"description"`
	LongDescription string         `gorm:"type:text" json:"long_description,omitempty"`
	Price           int64          `gorm:"not null" json:"price"` // minor currency units
	ComparePrice    *int64         `json:"compare_price,omitempty"`
	Features        pq.StringArray `gorm:"type:text[]" json:"features"`
	Image           string         `gorm:"type:text" json:"image,omitempty"`
	Images          pq.StringArray `gorm:"type:text[]" json:"images"`
	YoutubeURL      string         `gorm:"type:text" json:"youtube_url,omitempty"`
	Version         string         `gorm:"type:varchar(50)" json:"version"`
	DownloadPointer string         `gorm:"type:text" json:"-"` // never exposed publicly
	DownloadType    DownloadType   `gorm:"type:varchar(20)" json:"-"`
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`

	// Relationships
	Orders []Order `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}
