package services

import (
	"log"
	"time"

	"github.com/rafael-duarte/oficina-api/models"
	"gorm.io/gorm"
)

// AuditService appends work-order lifecycle events to the movement log.
// Recording is best-effort: a failed write is logged and swallowed so the
// primary operation never fails because of it.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service instance
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends a movement-log entry for a work order.
func (s *AuditService) Record(action string, order *models.WorkOrder) {
	entry := models.MovementLog{
		EntityType:  "work_order",
		EntityID:    order.ID,
		OrderNumber: order.Number,
		Action:      action,
		Total:       order.Total,
		ActorID:     order.UserID,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("warning: failed to record %s movement for work order %d: %v", action, order.ID, err)
	}
}

// ListMovements returns movement-log entries, newest first, optionally
// restricted to a [from, to] window on the entry timestamp.
func (s *AuditService) ListMovements(from, to *time.Time) ([]models.MovementLog, error) {
	query := s.db.Order("created_at DESC")
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}
	var entries []models.MovementLog
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
