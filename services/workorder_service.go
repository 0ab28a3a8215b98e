package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rafael-duarte/oficina-api/models"
	"gorm.io/gorm"
)

// Discount percentages are a hard business rule: at most 15% per category.
const MaxDiscountPct = 15.0

// AnonymousOperator is the sentinel the front desk sends when no operator is
// logged in; it normalizes to a NULL user reference.
const AnonymousOperator = "admin"

// WorkOrderService implements the work-order lifecycle: creation, line
// assembly, editing while open, the terminal finalization transition, and
// transactional cascade deletion.
type WorkOrderService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewWorkOrderService creates a new work-order service instance
func NewWorkOrderService(db *gorm.DB) *WorkOrderService {
	return &WorkOrderService{db: db, audit: NewAuditService(db)}
}

// CreateWorkOrderInput carries the fields accepted when opening an order.
// UserID is the raw operator reference from the request: empty or the
// "admin" sentinel means anonymous.
type CreateWorkOrderInput struct {
	VehicleID  uint
	MechanicID uint
	UserID     string
	Total      float64
	Note       string
}

// UpdateWorkOrderInput carries a partial update; nil fields are left alone.
type UpdateWorkOrderInput struct {
	VehicleID  *uint
	MechanicID *uint
	Total      *float64
	Note       *string
}

// FinalizationSummary is the discount computation produced by Finalize. It
// feeds receipts and reports; it is never written back to WorkOrder.Total,
// which keeps the pre-discount value the caller maintains.
type FinalizationSummary struct {
	TotalParts       float64 `json:"total_parts"`
	TotalServices    float64 `json:"total_services"`
	DiscountParts    float64 `json:"discount_parts"`
	DiscountServices float64 `json:"discount_services"`
	FinalTotal       float64 `json:"final_total"`
}

// Rounded returns a copy with every amount rounded to 2 decimal places.
// Rounding happens only at this presentation boundary; internal computation
// keeps full float precision.
func (f FinalizationSummary) Rounded() FinalizationSummary {
	return FinalizationSummary{
		TotalParts:       round2(f.TotalParts),
		TotalServices:    round2(f.TotalServices),
		DiscountParts:    round2(f.DiscountParts),
		DiscountServices: round2(f.DiscountServices),
		FinalTotal:       round2(f.FinalTotal),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// resolveOperator turns the raw operator reference into a nullable user id.
// Empty and the "admin" sentinel mean anonymous; anything else must be the
// id of an existing user.
func (s *WorkOrderService) resolveOperator(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, AnonymousOperator) {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, &ValidationError{Message: "user_id must be a numeric id or empty"}
	}
	var user models.User
	if err := s.db.First(&user, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "user", ID: uint(id)}
		}
		return nil, err
	}
	uid := uint(id)
	return &uid, nil
}

// normalizeNote stores blank notes as NULL.
func normalizeNote(note string) *string {
	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Create opens a new work order. The sequence number is assigned inside the
// insert transaction and is never client-supplied.
func (s *WorkOrderService) Create(input CreateWorkOrderInput) (*models.WorkOrder, error) {
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

	userID, err := s.resolveOperator(input.UserID)
	if err != nil {
		return nil, err
	}

	order := models.WorkOrder{
		VehicleID:  input.VehicleID,
		MechanicID: input.MechanicID,
		UserID:     userID,
		Note:       normalizeNote(input.Note),
		Total:      input.Total,
		Status:     models.WorkOrderStatusOpen,
		OpenedAt:   time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var maxNumber int64
		if err := tx.Model(&models.WorkOrder{}).
			Select("COALESCE(MAX(number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return err
		}
		order.Number = int(maxNumber) + 1
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(models.MovementActionCreated, &order)

	if err := s.db.Preload("Vehicle").Preload("Mechanic").Preload("User").
		First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Get returns a work order with its references preloaded.
func (s *WorkOrderService) Get(id uint) (*models.WorkOrder, error) {
	var order models.WorkOrder
	if err := s.db.Preload("Vehicle").Preload("Vehicle.Client").
		Preload("Mechanic").Preload("User").
		First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "work order", ID: id}
		}
		return nil, err
	}
	return &order, nil
}

// List returns work orders, optionally filtered by status.
func (s *WorkOrderService) List(status string) ([]models.WorkOrder, error) {
	query := s.db.Preload("Vehicle").Preload("Mechanic").Order("number DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []models.WorkOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Update applies a partial update to an order that is still open. Closed
// orders are immutable; the state check lives here, not in the caller.
func (s *WorkOrderService) Update(id uint, input UpdateWorkOrderInput) (*models.WorkOrder, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !order.IsOpen() {
		return nil, &ValidationError{Message: "work order is closed and cannot be edited"}
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
		// Guard against a finalize racing this update: only open rows change.
		res := s.db.Model(&models.WorkOrder{}).
			Where("id = ? AND status = ?", id, models.WorkOrderStatusOpen).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, &ValidationError{Message: "work order is closed and cannot be edited"}
		}
	}

	updated, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	s.audit.Record(models.MovementActionEdited, updated)
	return updated, nil
}

// AddPartLine attaches a quantity of a catalog part to an open order.
// Inventory is untouched at assembly time; stock only moves at finalization.
func (s *WorkOrderService) AddPartLine(orderID, partID uint, quantity float64) (*models.WorkOrderPart, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Message: "quantity must be greater than zero"}
	}
	order, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOpen() {
		return nil, &ValidationError{Message: "work order is closed and cannot be edited"}
	}
	var part models.Part
	if err := s.db.First(&part, partID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "part", ID: partID}
		}
		return nil, err
	}

	line := models.WorkOrderPart{
		WorkOrderID: orderID,
		PartID:      partID,
		Quantity:    quantity,
	}
	if err := s.db.Create(&line).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Part").Preload("Part.Brand").First(&line, line.ID).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// AddServiceLine attaches a quantity of a catalog service to an open order.
func (s *WorkOrderService) AddServiceLine(orderID, serviceID uint, quantity float64) (*models.WorkOrderService, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Message: "quantity must be greater than zero"}
	}
	order, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOpen() {
		return nil, &ValidationError{Message: "work order is closed and cannot be edited"}
	}
	var service models.Service
	if err := s.db.First(&service, serviceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "service", ID: serviceID}
		}
		return nil, err
	}

	line := models.WorkOrderService{
		WorkOrderID: orderID,
		ServiceID:   serviceID,
		Quantity:    quantity,
	}
	if err := s.db.Create(&line).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Service").First(&line, line.ID).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// RemovePartLine deletes every line of the given part on the order.
func (s *WorkOrderService) RemovePartLine(orderID, partID uint) error {
	order, err := s.Get(orderID)
	if err != nil {
		return err
	}
	if !order.IsOpen() {
		return &ValidationError{Message: "work order is closed and cannot be edited"}
	}
	res := s.db.Where("work_order_id = ? AND part_id = ?", orderID, partID).
		Delete(&models.WorkOrderPart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "part line", ID: partID}
	}
	return nil
}

// RemoveServiceLine deletes every line of the given service on the order.
func (s *WorkOrderService) RemoveServiceLine(orderID, serviceID uint) error {
	order, err := s.Get(orderID)
	if err != nil {
		return err
	}
	if !order.IsOpen() {
		return &ValidationError{Message: "work order is closed and cannot be edited"}
	}
	res := s.db.Where("work_order_id = ? AND service_id = ?", orderID, serviceID).
		Delete(&models.WorkOrderService{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "service line", ID: serviceID}
	}
	return nil
}

// Lines returns the order's part and service lines with catalog data joined.
func (s *WorkOrderService) Lines(orderID uint) ([]models.WorkOrderPart, []models.WorkOrderService, error) {
	if _, err := s.Get(orderID); err != nil {
		return nil, nil, err
	}
	var partLines []models.WorkOrderPart
	if err := s.db.Where("work_order_id = ?", orderID).
		Preload("Part").Preload("Part.Brand").
		Order("id ASC").
		Find(&partLines).Error; err != nil {
		return nil, nil, err
	}
	var serviceLines []models.WorkOrderService
	if err := s.db.Where("work_order_id = ?", orderID).
		Preload("Service").
		Order("id ASC").
		Find(&serviceLines).Error; err != nil {
		return nil, nil, err
	}
	return partLines, serviceLines, nil
}

// ComputeTotals sums the order's lines against the catalog's current prices.
// Prices are read live on every call: editing a part's price re-prices every
// open order that references it. Repeated calls with an unchanged catalog
// return identical values.
func (s *WorkOrderService) ComputeTotals(orderID uint) (totalParts, totalServices float64, err error) {
	partLines, serviceLines, err := s.Lines(orderID)
	if err != nil {
		return 0, 0, err
	}
	for _, line := range partLines {
		var part models.Part
		if err := s.db.First(&part, line.PartID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return 0, 0, &NotFoundError{Resource: "part", ID: line.PartID}
			}
			return 0, 0, err
		}
		totalParts += line.Quantity * part.Price
	}
	for _, line := range serviceLines {
		var service models.Service
		if err := s.db.First(&service, line.ServiceID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return 0, 0, &NotFoundError{Resource: "service", ID: line.ServiceID}
			}
			return 0, 0, err
		}
		totalServices += line.Quantity * service.FinalValue
	}
	return totalParts, totalServices, nil
}

// Finalize performs the single terminal transition open -> closed.
//
// Validation (payment method, discount bounds) happens before any mutation.
// The stock decrements for every part line and the status flip are applied
// in one transaction: either the order closes with all stock adjusted, or
// it stays open with stock unchanged. Stock may go negative; a shortfall
// never blocks the sale. The discount percentages are written to the row
// with the status flip so the receipt can rebuild the charged amounts.
func (s *WorkOrderService) Finalize(orderID uint, paymentMethod string, discountPartsPct, discountServicesPct float64) (*models.WorkOrder, *FinalizationSummary, error) {
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		return nil, nil, &ValidationError{Message: "payment method is required"}
	}
	if discountPartsPct < 0 || discountPartsPct > MaxDiscountPct {
		return nil, nil, &ValidationError{Message: "parts discount must be between 0% and 15%"}
	}
	if discountServicesPct < 0 || discountServicesPct > MaxDiscountPct {
		return nil, nil, &ValidationError{Message: "services discount must be between 0% and 15%"}
	}

	order, err := s.Get(orderID)
	if err != nil {
		return nil, nil, err
	}
	if !order.IsOpen() {
		return nil, nil, &ValidationError{Message: "work order is not open"}
	}

	totalParts, totalServices, err := s.ComputeTotals(orderID)
	if err != nil {
		return nil, nil, err
	}
	summary := FinalizationSummary{
		TotalParts:       totalParts,
		TotalServices:    totalServices,
		DiscountParts:    totalParts * discountPartsPct / 100,
		DiscountServices: totalServices * discountServicesPct / 100,
	}
	summary.FinalTotal = totalParts + totalServices - summary.DiscountParts - summary.DiscountServices

	var partLines []models.WorkOrderPart
	if err := s.db.Where("work_order_id = ?", orderID).
		Order("id ASC").
		Find(&partLines).Error; err != nil {
		return nil, nil, err
	}

	closedAt := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, line := range partLines {
			if err := adjustStock(tx, line.PartID, -line.Quantity); err != nil {
				return err
			}
		}

		// The status predicate guards against a concurrent finalize: only
		// one caller can flip the row.
		res := tx.Model(&models.WorkOrder{}).
			Where("id = ? AND status = ?", orderID, models.WorkOrderStatusOpen).
			Updates(map[string]interface{}{
				"status":                models.WorkOrderStatusClosed,
				"closed_at":             closedAt,
				"payment_method":        paymentMethod,
				"discount_parts_pct":    discountPartsPct,
				"discount_services_pct": discountServicesPct,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &ValidationError{Message: "work order is not open"}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	closed, err := s.Get(orderID)
	if err != nil {
		return nil, nil, err
	}
	s.audit.Record(models.MovementActionClosed, closed)
	return closed, &summary, nil
}

// ReceiptSummary rebuilds the charged amounts of a closed order from the
// discount percentages persisted at finalization. Orders closed before any
// discount was recorded read as zero-discount.
func (s *WorkOrderService) ReceiptSummary(order *models.WorkOrder) (*FinalizationSummary, error) {
	totalParts, totalServices, err := s.ComputeTotals(order.ID)
	if err != nil {
		return nil, err
	}
	summary := FinalizationSummary{
		TotalParts:    totalParts,
		TotalServices: totalServices,
	}
	if order.DiscountPartsPct != nil {
		summary.DiscountParts = totalParts * *order.DiscountPartsPct / 100
	}
	if order.DiscountServicesPct != nil {
		summary.DiscountServices = totalServices * *order.DiscountServicesPct / 100
	}
	summary.FinalTotal = totalParts + totalServices - summary.DiscountParts - summary.DiscountServices
	return &summary, nil
}

// Delete hard-deletes an order and cascades to its lines in one transaction.
// It returns how many lines were removed. Inventory already adjusted by a
// past finalization is not reversed: delete does not restock.
func (s *WorkOrderService) Delete(id uint) (int64, error) {
	order, err := s.Get(id)
	if err != nil {
		return 0, err
	}

	var removed int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("work_order_id = ?", id).Delete(&models.WorkOrderPart{})
		if res.Error != nil {
			return res.Error
		}
		removed += res.RowsAffected

		res = tx.Where("work_order_id = ?", id).Delete(&models.WorkOrderService{})
		if res.Error != nil {
			return res.Error
		}
		removed += res.RowsAffected

		return tx.Delete(&models.WorkOrder{}, id).Error
	})
	if err != nil {
		return 0, err
	}

	s.audit.Record(models.MovementActionDeleted, order)
	return removed, nil
}
