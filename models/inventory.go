package models

import "time"

// InventoryRecord is the per-part stock counter. One record per part,
// created lazily on the first movement. Quantity is signed and may go
// negative: a negative balance represents an unfulfilled back-order and
// never blocks a sale.
type InventoryRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PartID         uint      `gorm:"uniqueIndex;not null" json:"part_id"` // foreign key to parts table
	Part           Part      `gorm:"foreignKey:PartID" json:"part"`
	Quantity       float64   `gorm:"not null;default:0" json:"quantity"`
	LastMovementAt time.Time `json:"last_movement_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the InventoryRecord model
func (InventoryRecord) TableName() string {
	return "inventory_records"
}
