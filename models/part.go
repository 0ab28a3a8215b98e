package models

import "time"

// Part represents a catalog part. Price is the current unit price; orders
// that reference this part are costed against the price in effect when
// their totals are computed, not when the line was added.
type Part struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Description string    `gorm:"not null" json:"description"`
	Price       float64   `gorm:"not null;check:price >= 0" json:"price"`
	BrandID     uint      `gorm:"not null;index" json:"brand_id"` // foreign key to brands table
	Brand       Brand     `gorm:"foreignKey:BrandID" json:"brand"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Part model
func (Part) TableName() string {
	return "parts"
}
