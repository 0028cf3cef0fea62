package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a registered customer or administrator
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"` // empty for externally-authenticated accounts
	Role         string         `gorm:"type:varchar(20);default:'USER'" json:"role"`
	TokenVersion int            `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	Orders         []Order              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ResetTokens    []PasswordResetToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AuditLogs      []AdminAuditLog      `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
