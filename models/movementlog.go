package models

import "time"

// Movement log actions
const (
	MovementActionCreated = "created"
	MovementActionEdited  = "edited"
	MovementActionClosed  = "closed"
	MovementActionDeleted = "deleted"
)

// MovementLog is an append-only record of work-order lifecycle events,
// used by the movements report. ActorID is NULL for anonymous operators.
// Writing a log row is best-effort and never fails the primary operation.
type MovementLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EntityType  string    `gorm:"not null;index" json:"entity_type"` // e.g. "work_order"
	EntityID    uint      `gorm:"not null;index" json:"entity_id"`
	OrderNumber int       `json:"order_number"`
	Action      string    `gorm:"not null" json:"action"` // created, edited, closed, deleted
	Total       float64   `json:"total"`
	ActorID     *uint     `json:"actor_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the MovementLog model
func (MovementLog) TableName() string {
	return "movement_logs"
}
