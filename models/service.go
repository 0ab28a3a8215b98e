package models

import "time"

// Service represents a catalog labor service. FinalValue is derived from
// HourlyRate and DurationHours at create/update time and persisted; it is
// never recomputed on read.
type Service struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Description   string    `gorm:"not null" json:"description"`
	HourlyRate    float64   `gorm:"not null;check:hourly_rate >= 0" json:"hourly_rate"`
	DurationHours float64   `gorm:"not null;check:duration_hours >= 0" json:"duration_hours"`
	FinalValue    float64   `gorm:"not null" json:"final_value"`
	COS           string    `json:"cos"` // service-center code, informational only
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
