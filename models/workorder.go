package models

import "time"

// Work order status values. The only transition is open -> closed, performed
// by the finalization engine; there is no reopen.
const (
	WorkOrderStatusOpen   = "open"
	WorkOrderStatusClosed = "closed"
)

// WorkOrder represents a work order (OS) in the shop.
// Number is a human-facing sequence assigned by storage on insert.
// UserID is nullable: NULL means the order was opened by an anonymous
// ("wildcard") operator.
type WorkOrder struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Number              int        `gorm:"uniqueIndex;not null" json:"number"`
	VehicleID           uint       `gorm:"not null;index" json:"vehicle_id"` // foreign key to vehicles table
	Vehicle             Vehicle    `gorm:"foreignKey:VehicleID" json:"vehicle"`
	MechanicID          uint       `gorm:"not null;index" json:"mechanic_id"` // foreign key to mechanics table
	Mechanic            Mechanic   `gorm:"foreignKey:MechanicID" json:"mechanic"`
	UserID              *uint      `gorm:"index" json:"user_id"`
	User                *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Note                *string    `json:"note"`
	Total               float64    `gorm:"not null;default:0;check:total >= 0" json:"total"`
	Status              string     `gorm:"not null;default:'open'" json:"status"` // open, closed
	OpenedAt            time.Time  `json:"opened_at"`
	ClosedAt            *time.Time `json:"closed_at"`
	PaymentMethod       *string    `json:"payment_method"`        // free-form label, set at finalization
	DiscountPartsPct    *float64   `json:"discount_parts_pct"`    // NULL until finalized
	DiscountServicesPct *float64   `json:"discount_services_pct"` // NULL until finalized
	PhotoS3Key          *string    `json:"photo_s3_key"`          // nullable, S3 key for an attached photo
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the WorkOrder model
func (WorkOrder) TableName() string {
	return "work_orders"
}

// IsOpen reports whether the order can still be edited or finalized.
func (w *WorkOrder) IsOpen() bool {
	return w.Status == WorkOrderStatusOpen
}

// WorkOrderPart attaches a quantity of a catalog part to a work order.
// No unit price is stored; the part's current catalog price applies
// whenever totals are computed.
type WorkOrderPart struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WorkOrderID uint      `gorm:"not null;index" json:"work_order_id"`
	PartID      uint      `gorm:"not null;index" json:"part_id"`
	Part        Part      `gorm:"foreignKey:PartID" json:"part"`
	Quantity    float64   `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the WorkOrderPart model
func (WorkOrderPart) TableName() string {
	return "work_order_parts"
}

// WorkOrderService attaches a quantity of a catalog service to a work order.
// Quantity is a positive real number (e.g. 1.5 hours).
type WorkOrderService struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WorkOrderID uint      `gorm:"not null;index" json:"work_order_id"`
	ServiceID   uint      `gorm:"not null;index" json:"service_id"`
	Service     Service   `gorm:"foreignKey:ServiceID" json:"service"`
	Quantity    float64   `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the WorkOrderService model
func (WorkOrderService) TableName() string {
	return "work_order_services"
}
