package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents an item in the shop catalog. Price is in Colombian
// pesos, which have no fractional display unit.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Price       int64          `gorm:"not null" json:"price"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"index" json:"category"`
	Subcategory string         `json:"subcategory"`
	ImageURL    string         `json:"image_url"`
	Colors      string         `json:"colors"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Course represents an academy course. It shares the catalog pricing rules
// with products.
type Course struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Price       int64          `gorm:"not null" json:"price"`
	Level       string         `json:"level"`
	Duration    string         `json:"duration"`
	Location    string         `json:"location"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
