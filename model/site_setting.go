package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SiteSetting is a key/value store for landing-page section content
// (hero, features, footer, bank-transfer instructions). Values are
// unstructured JSON; defaults live client-side.
type SiteSetting struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Key       string         `gorm:"uniqueIndex;not null" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for SiteSetting
func (SiteSetting) TableName() string {
	return "site_settings"
}
