package model

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the state of a purchase attempt
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
	OrderStatusFailed    OrderStatus = "FAILED"
)

// IsTerminal reports whether no further transitions may leave this status.
// PENDING is the only non-terminal state.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusFailed || s == OrderStatusRefunded
}

// IsValid reports whether s is a known order status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusRefunded, OrderStatusFailed:
		return true
	}
	return false
}

// Order represents one purchase attempt. Amount is snapshotted from the
// product price at creation time and never changes afterwards.
type Order struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Amount    int64          `gorm:"not null" json:"amount"`
	Status    OrderStatus    `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	SlipImage string         `gorm:"type:text" json:"slip_image,omitempty"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}
