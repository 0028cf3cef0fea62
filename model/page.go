package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Page represents a site-builder page: an ordered list of typed content
// blocks stored as a JSON array. Block semantics live in services/pagebuilder.
type Page struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Blocks      datatypes.JSON `gorm:"type:jsonb" json:"blocks"`
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
}

// TableName specifies the table name for Page
func (Page) TableName() string {
	return "pages"
}
