package models

import "time"

// Vehicle represents a client's vehicle
type Vehicle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Plate     string    `gorm:"uniqueIndex;not null" json:"plate"`
	Model     string    `gorm:"not null" json:"model"`
	Year      int       `json:"year"`
	Color     string    `json:"color"`
	ClientID  uint      `gorm:"not null;index" json:"client_id"` // foreign key to clients table
	Client    Client    `gorm:"foreignKey:ClientID" json:"client"`
	BrandID   uint      `gorm:"not null;index" json:"brand_id"` // foreign key to brands table
	Brand     Brand     `gorm:"foreignKey:BrandID" json:"brand"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}
