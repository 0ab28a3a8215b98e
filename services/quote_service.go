package services

import (
	"github.com/rafael-duarte/oficina-api/models"
	"gorm.io/gorm"
)

// QuoteService manages quotes (orçamentos). Quotes share the work-order
// shape but have no status machine: they are never finalized and never
// touch inventory.
type QuoteService struct {
	db *gorm.DB
}

// NewQuoteService creates a new quote service instance
func NewQuoteService(db *gorm.DB) *QuoteService {
	return &QuoteService{db: db}
}

// CreateQuoteInput carries the fields accepted when creating a quote.
type CreateQuoteInput struct {
	VehicleID  uint
	MechanicID uint
	UserID     string
	Total      float64
	Note       string
}

// Create creates a new quote with a storage-assigned sequence number.
func (s *QuoteService) Create(input CreateQuoteInput) (*models.Quote, error) {
	if input.VehicleID == 0 {
		return nil, &ValidationError{Message: "vehicle_id is required"}
	}
	if input.MechanicID == 0 {
		return nil, &ValidationError{Message: "mechanic_id is required"}
	}
	if input.Total < 0 {
		return nil, &ValidationError{Message: "total must not be negative"}
	}

	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, input.VehicleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "vehicle", ID: input.VehicleID}
		}
		return nil, err
	}
	var mechanic models.Mechanic
	if err := s.db.First(&mechanic, input.MechanicID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "mechanic", ID: input.MechanicID}
		}
		return nil, err
	}

	// Operator resolution follows the work-order rules.
	wos := WorkOrderService{db: s.db}
	userID, err := wos.resolveOperator(input.UserID)
	if err != nil {
		return nil, err
	}

	quote := models.Quote{
		VehicleID:  input.VehicleID,
		MechanicID: input.MechanicID,
		UserID:     userID,
		Note:       normalizeNote(input.Note),
		Total:      input.Total,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var maxNumber int64
		if err := tx.Model(&models.Quote{}).
			Select("COALESCE(MAX(number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return err
		}
		quote.Number = int(maxNumber) + 1
		return tx.Create(&quote).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Vehicle").Preload("Mechanic").Preload("User").
		First(&quote, quote.ID).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

// Get returns a quote with its references preloaded.
func (s *QuoteService) Get(id uint) (*models.Quote, error) {
	var quote models.Quote
	if err := s.db.Preload("Vehicle").Preload("Vehicle.Client").
		Preload("Mechanic").Preload("User").
		First(&quote, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "quote", ID: id}
		}
		return nil, err
	}
	return &quote, nil
}

// List returns all quotes, newest first.
func (s *QuoteService) List() ([]models.Quote, error) {
	var quotes []models.Quote
	if err := s.db.Preload("Vehicle").Preload("Mechanic").
		Order("number DESC").
		Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// UpdateQuoteInput carries the optional fields of a partial quote update.
// Nil fields are left untouched.
type UpdateQuoteInput struct {
	VehicleID  *uint
	MechanicID *uint
	Total      *float64
	Note       *string
}

// Update applies a partial update. Quotes have no status machine, so unlike
// work orders they stay editable for their whole life.
func (s *QuoteService) Update(id uint, input UpdateQuoteInput) (*models.Quote, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.VehicleID != nil {
		var vehicle models.Vehicle
		if err := s.db.First(&vehicle, *input.VehicleID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, &NotFoundError{Resource: "vehicle", ID: *input.VehicleID}
			}
			return nil, err
		}
		updates["vehicle_id"] = *input.VehicleID
	}
	if input.MechanicID != nil {
		var mechanic models.Mechanic
		if err := s.db.First(&mechanic, *input.MechanicID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, &NotFoundError{Resource: "mechanic", ID: *input.MechanicID}
			}
			return nil, err
		}
		updates["mechanic_id"] = *input.MechanicID
	}
	if input.Total != nil {
		if *input.Total < 0 {
			return nil, &ValidationError{Message: "total must not be negative"}
		}
		updates["total"] = *input.Total
	}
	if input.Note != nil {
		updates["note"] = normalizeNote(*input.Note)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Quote{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.Get(id)
}

// AddPartLine attaches a quantity of a catalog part to a quote.
func (s *QuoteService) AddPartLine(quoteID, partID uint, quantity float64) (*models.QuotePart, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Message: "quantity must be greater than zero"}
	}
	if _, err := s.Get(quoteID); err != nil {
		return nil, err
	}
	var part models.Part
	if err := s.db.First(&part, partID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "part", ID: partID}
		}
		return nil, err
	}

	line := models.QuotePart{QuoteID: quoteID, PartID: partID, Quantity: quantity}
	if err := s.db.Create(&line).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Part").Preload("Part.Brand").First(&line, line.ID).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// AddServiceLine attaches a quantity of a catalog service to a quote.
func (s *QuoteService) AddServiceLine(quoteID, serviceID uint, quantity float64) (*models.QuoteService, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Message: "quantity must be greater than zero"}
	}
	if _, err := s.Get(quoteID); err != nil {
		return nil, err
	}
	var service models.Service
	if err := s.db.First(&service, serviceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "service", ID: serviceID}
		}
		return nil, err
	}

	line := models.QuoteService{QuoteID: quoteID, ServiceID: serviceID, Quantity: quantity}
	if err := s.db.Create(&line).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Service").First(&line, line.ID).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// RemovePartLine deletes every line of the given part on the quote.
func (s *QuoteService) RemovePartLine(quoteID, partID uint) error {
	if _, err := s.Get(quoteID); err != nil {
		return err
	}
	res := s.db.Where("quote_id = ? AND part_id = ?", quoteID, partID).
		Delete(&models.QuotePart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "part line", ID: partID}
	}
	return nil
}

// RemoveServiceLine deletes every line of the given service on the quote.
func (s *QuoteService) RemoveServiceLine(quoteID, serviceID uint) error {
	if _, err := s.Get(quoteID); err != nil {
		return err
	}
	res := s.db.Where("quote_id = ? AND service_id = ?", quoteID, serviceID).
		Delete(&models.QuoteService{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "service line", ID: serviceID}
	}
	return nil
}

// ComputeTotals sums the quote's lines against the catalog's current prices.
func (s *QuoteService) ComputeTotals(quoteID uint) (totalParts, totalServices float64, err error) {
	if _, err := s.Get(quoteID); err != nil {
		return 0, 0, err
	}
	var partLines []models.QuotePart
	if err := s.db.Where("quote_id = ?", quoteID).Preload("Part").
		Find(&partLines).Error; err != nil {
		return 0, 0, err
	}
	for _, line := range partLines {
		totalParts += line.Quantity * line.Part.Price
	}
	var serviceLines []models.QuoteService
	if err := s.db.Where("quote_id = ?", quoteID).Preload("Service").
		Find(&serviceLines).Error; err != nil {
		return 0, 0, err
	}
	for _, line := range serviceLines {
		totalServices += line.Quantity * line.Service.FinalValue
	}
	return totalParts, totalServices, nil
}

// Delete hard-deletes a quote and cascades to its lines in one transaction.
func (s *QuoteService) Delete(id uint) (int64, error) {
	if _, err := s.Get(id); err != nil {
		return 0, err
	}

	var removed int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("quote_id = ?", id).Delete(&models.QuotePart{})
		if res.Error != nil {
			return res.Error
		}
		removed += res.RowsAffected

		res = tx.Where("quote_id = ?", id).Delete(&models.QuoteService{})
		if res.Error != nil {
			return res.Error
		}
		removed += res.RowsAffected

		return tx.Delete(&models.Quote{}, id).Error
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
