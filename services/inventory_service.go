package services

import (
	"time"

	"github.com/rafael-duarte/oficina-api/models"
	"gorm.io/gorm"
)

// InventoryService manages the per-part stock ledger.
type InventoryService struct {
	db *gorm.DB
}

// NewInventoryService creates a new inventory service instance
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// adjustStock applies a signed delta to a part's inventory record, creating
// the record at the delta value if none exists (absent record == quantity 0).
// The delta is applied as a single UPDATE expression so that concurrent
// adjustments against the same part cannot lose updates, whatever the
// transaction isolation level.
//
// Negative resulting balances are valid and persisted as-is: they represent
// an unfulfilled back-order, not an error.
func adjustStock(tx *gorm.DB, partID uint, delta float64) error {
	now := time.Now()
	res := tx.Model(&models.InventoryRecord{}).
		Where("part_id = ?", partID).
		Updates(map[string]interface{}{
			"quantity":         gorm.Expr("quantity + ?", delta),
			"last_movement_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// First movement for this part: create the record lazily.
	record := models.InventoryRecord{
		PartID:         partID,
		Quantity:       delta,
		LastMovementAt: now,
	}
	return tx.Create(&record).Error
}

// Receive registers a manual stock intake for a part. Quantity must be
// positive; use finalization for outbound movements.
func (s *InventoryService) Receive(partID uint, quantity float64) (*models.InventoryRecord, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Message: "quantity must be greater than zero"}
	}

	var part models.Part
	if err := s.db.First(&part, partID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "part", ID: partID}
		}
		return nil, err
	}

	if err := adjustStock(s.db, partID, quantity); err != nil {
		return nil, err
	}

	var record models.InventoryRecord
	if err := s.db.Where("part_id = ?", partID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns all inventory records with their parts preloaded.
func (s *InventoryService) List() ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := s.db.Preload("Part").Preload("Part.Brand").
		Order("part_id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetByPart returns the inventory record for a part, or a NotFoundError if
// the part has never had a stock movement.
func (s *InventoryService) GetByPart(partID uint) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := s.db.Preload("Part").Where("part_id = ?", partID).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "inventory record for part", ID: partID}
		}
		return nil, err
	}
	return &record, nil
}
