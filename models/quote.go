package models

import "time"

// Quote represents a quote/estimate (orçamento). Same shape as a work order
// but it never closes and never touches inventory.
type Quote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Number     int       `gorm:"uniqueIndex;not null" json:"number"`
	VehicleID  uint      `gorm:"not null;index" json:"vehicle_id"`
	Vehicle    Vehicle   `gorm:"foreignKey:VehicleID" json:"vehicle"`
	MechanicID uint      `gorm:"not null;index" json:"mechanic_id"`
	Mechanic   Mechanic  `gorm:"foreignKey:MechanicID" json:"mechanic"`
	UserID     *uint     `gorm:"index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Note       *string   `json:"note"`
	Total      float64   `gorm:"not null;default:0;check:total >= 0" json:"total"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}

// QuotePart attaches a quantity of a catalog part to a quote.
type QuotePart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	QuoteID   uint      `gorm:"not null;index" json:"quote_id"`
	PartID    uint      `gorm:"not null;index" json:"part_id"`
	Part      Part      `gorm:"foreignKey:PartID" json:"part"`
	Quantity  float64   `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the QuotePart model
func (QuotePart) TableName() string {
	return "quote_parts"
}

// QuoteService attaches a quantity of a catalog service to a quote.
type QuoteService struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	QuoteID   uint      `gorm:"not null;index" json:"quote_id"`
	ServiceID uint      `gorm:"not null;index" json:"service_id"`
	Service   Service   `gorm:"foreignKey:ServiceID" json:"service"`
	Quantity  float64   `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the QuoteService model
func (QuoteService) TableName() string {
	return "quote_services"
}
