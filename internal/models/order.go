package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses.
const (
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
)

// Order is a placed order. All amounts are computed server-side from the
// actor snapshot at creation time; the client never supplies totals.
type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Reference  string      `gorm:"unique;not null" json:"reference"`
	UserID     uint        `gorm:"not null;index" json:"user_id"`
	User       User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal   int64       `gorm:"not null" json:"subtotal"`
	Discount   int64       `gorm:"not null" json:"discount"`
	Shipping   int64       `gorm:"not null" json:"shipping"`
	Total      int64       `gorm:"not null" json:"total"`
	CouponCode string      `json:"coupon_code,omitempty"`
	Status     string      `gorm:"not null;default:processing" json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem is a line item with the unit price that was actually charged
// (wholesale for distributors, base price otherwise).
type OrderItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderID   uint   `gorm:"not null;index" json:"order_id"`
	ProductID uint   `gorm:"not null" json:"product_id"`
	Name      string `gorm:"not null" json:"name"`
	UnitPrice int64  `gorm:"not null" json:"unit_price"`
	Quantity  int    `gorm:"not null" json:"quantity"`
}
