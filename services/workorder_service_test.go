package services

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/rafael-duarte/oficina-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkOrder(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	order, err := svc.Create(CreateWorkOrderInput{
		VehicleID:  f.Vehicle.ID,
		MechanicID: f.Mechanic.ID,
		Total:      150.00,
		Note:       "Engine noise on cold start",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, order.Number, "First order should get sequence number 1")
	assert.Equal(t, models.WorkOrderStatusOpen, order.Status)
	assert.Equal(t, 150.00, order.Total)
	assert.Nil(t, order.UserID, "No operator given, user should be NULL")
	assert.Nil(t, order.ClosedAt)
	assert.Nil(t, order.PaymentMethod)
	assert.False(t, order.OpenedAt.IsZero(), "OpenedAt should be stamped at creation")
	require.NotNil(t, order.Note)
	assert.Equal(t, "Engine noise on cold start", *order.Note)

	second, err := svc.Create(CreateWorkOrderInput{
		VehicleID:  f.Vehicle.ID,
		MechanicID: f.Mechanic.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number, "Sequence numbers must increase")
	assert.Equal(t, 0.0, second.Total, "Total defaults to zero")
}

func TestCreateWorkOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	_, err := svc.Create(CreateWorkOrderInput{MechanicID: f.Mechanic.ID})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr, "Missing vehicle must be a validation error")

	_, err = svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID})
	require.ErrorAs(t, err, &validationErr, "Missing mechanic must be a validation error")

	_, err = svc.Create(CreateWorkOrderInput{VehicleID: 9999, MechanicID: f.Mechanic.ID})
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr, "Unknown vehicle must be a not-found error")
}

func TestCreateWorkOrderOperatorNormalization(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	tests := []struct {
		name   string
		userID string
		want   *uint
	}{
		{"empty operator is anonymous", "", nil},
		{"admin sentinel is anonymous", "admin", nil},
		{"admin sentinel is case-insensitive", "ADMIN", nil},
		{"numeric id resolves to user", strconv.Itoa(int(f.User.ID)), &f.User.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := svc.Create(CreateWorkOrderInput{
				VehicleID:  f.Vehicle.ID,
				MechanicID: f.Mechanic.ID,
				UserID:     tt.userID,
			})
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, order.UserID)
			} else {
				require.NotNil(t, order.UserID)
				assert.Equal(t, *tt.want, *order.UserID)
			}
		})
	}

	_, err := svc.Create(CreateWorkOrderInput{
		VehicleID:  f.Vehicle.ID,
		MechanicID: f.Mechanic.ID,
		UserID:     "9999",
	})
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr, "Unknown operator id must be a not-found error")
}

func TestCreateWorkOrderBlankNoteIsNull(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	order, err := svc.Create(CreateWorkOrderInput{
		VehicleID:  f.Vehicle.ID,
		MechanicID: f.Mechanic.ID,
		Note:       "   ",
	})
	require.NoError(t, err)
	assert.Nil(t, order.Note, "Whitespace-only note must be stored as NULL")
}

func TestAddLinesAndComputeTotals(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)

	_, err = svc.AddPartLine(order.ID, f.PartA.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddServiceLine(order.ID, f.Service.ID, 1.5)
	require.NoError(t, err)

	totalParts, totalServices, err := svc.ComputeTotals(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.00, totalParts, "2 x 50.00")
	assert.Equal(t, 150.00, totalServices, "1.5 x 100.00")

	// Totals are a pure read: repeated calls return the same values.
	again1, again2, err := svc.ComputeTotals(order.ID)
	require.NoError(t, err)
	assert.Equal(t, totalParts, again1)
	assert.Equal(t, totalServices, again2)

	// Lines do not snapshot prices: a catalog change re-prices the order.
	require.NoError(t, db.Model(&models.Part{}).Where("id = ?", f.PartA.ID).Update("price", 60.00).Error)
	totalParts, _, err = svc.ComputeTotals(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.00, totalParts, "Live price must be used, not a snapshot")
}

func TestAddLineValidation(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)

	var validationErr *ValidationError
	_, err = svc.AddPartLine(order.ID, f.PartA.ID, 0)
	require.ErrorAs(t, err, &validationErr, "Zero quantity must be rejected")
	_, err = svc.AddPartLine(order.ID, f.PartA.ID, -1)
	require.ErrorAs(t, err, &validationErr, "Negative quantity must be rejected")

	var notFoundErr *NotFoundError
	_, err = svc.AddPartLine(order.ID, 9999, 1)
	require.ErrorAs(t, err, &notFoundErr)
	_, err = svc.AddServiceLine(order.ID, 9999, 1)
	require.ErrorAs(t, err, &notFoundErr)

	// Adding a line must not move stock.
	_, err = svc.AddPartLine(order.ID, f.PartA.ID, 3)
	require.NoError(t, err)
	var count int64
	db.Model(&models.InventoryRecord{}).Count(&count)
	assert.Zero(t, count, "Order assembly must not touch inventory")
}

func TestRemoveLine(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)
	_, err = svc.AddPartLine(order.ID, f.PartA.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemovePartLine(order.ID, f.PartA.ID))

	var notFoundErr *NotFoundError
	err = svc.RemovePartLine(order.ID, f.PartA.ID)
	require.ErrorAs(t, err, &notFoundErr, "Removing an absent line must be a not-found error")
	err = svc.RemoveServiceLine(order.ID, f.Service.ID)
	require.ErrorAs(t, err, &notFoundErr)
}

func TestUpdateWorkOrder(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID, Total: 10})
	require.NoError(t, err)

	newTotal := 99.90
	blank := "  "
	updated, err := svc.Update(order.ID, UpdateWorkOrderInput{Total: &newTotal, Note: &blank})
	require.NoError(t, err)
	assert.Equal(t, 99.90, updated.Total)
	assert.Nil(t, updated.Note, "Blank note update normalizes to NULL")

	negative := -1.0
	var validationErr *ValidationError
	_, err = svc.Update(order.ID, UpdateWorkOrderInput{Total: &negative})
	require.ErrorAs(t, err, &validationErr)
}

func TestDiscountBounds(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	newOrder := func() uint {
		order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
		require.NoError(t, err)
		return order.ID
	}

	var validationErr *ValidationError

	_, _, err := svc.Finalize(newOrder(), "Cash", -0.01, 0)
	require.ErrorAs(t, err, &validationErr, "-0.01 parts discount must be rejected")

	_, _, err = svc.Finalize(newOrder(), "Cash", 15.01, 0)
	require.ErrorAs(t, err, &validationErr, "15.01 parts discount must be rejected")

	_, _, err = svc.Finalize(newOrder(), "Cash", 0, -0.01)
	require.ErrorAs(t, err, &validationErr, "-0.01 services discount must be rejected")

	_, _, err = svc.Finalize(newOrder(), "Cash", 0, 15.01)
	require.ErrorAs(t, err, &validationErr, "15.01 services discount must be rejected")

	_, _, err = svc.Finalize(newOrder(), "Cash", 0, 0)
	assert.NoError(t, err, "Boundary value 0 must be accepted")

	_, _, err = svc.Finalize(newOrder(), "Cash", 15, 15)
	assert.NoError(t, err, "Boundary value 15 must be accepted")

	_, _, err = svc.Finalize(newOrder(), "   ", 0, 0)
	require.ErrorAs(t, err, &validationErr, "Blank payment method must be rejected")
}

func TestFinalizeScenario(t *testing.T) {
	// Create order, add part P1 (price 50.00, qty 2) and service S1 (final
	// value 100.00, qty 1), finalize with 10% parts / 0% services discount.
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)
	_, err = svc.AddPartLine(order.ID, f.PartA.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddServiceLine(order.ID, f.Service.ID, 1)
	require.NoError(t, err)

	closed, summary, err := svc.Finalize(order.ID, "Cash", 10, 0)
	require.NoError(t, err)

	assert.Equal(t, 100.00, summary.TotalParts)
	assert.Equal(t, 100.00, summary.TotalServices)
	assert.Equal(t, 10.00, summary.DiscountParts)
	assert.Equal(t, 0.00, summary.DiscountServices)
	assert.Equal(t, 190.00, summary.FinalTotal)

	assert.Equal(t, models.WorkOrderStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	require.NotNil(t, closed.PaymentMethod)
	assert.Equal(t, "Cash", *closed.PaymentMethod)

	assert.Equal(t, -2.0, stockOf(t, db, f.PartA.ID), "Stock decreases by line quantity, from an implicit zero")

	// The discount computation is display-only: the stored total is untouched.
	assert.Equal(t, order.Total, closed.Total)
}

func TestReceiptReflectsFinalizedDiscounts(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)
	_, err = svc.AddPartLine(order.ID, f.PartA.ID, 2)
	require.NoError(t, err)

	_, _, err = svc.Finalize(order.ID, "Cash", 10, 0)
	require.NoError(t, err)

	closed, err := svc.Get(order.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.DiscountPartsPct, "Finalize must persist the parts discount")
	require.NotNil(t, closed.DiscountServicesPct, "Finalize must persist the services discount")
	assert.Equal(t, 10.0, *closed.DiscountPartsPct)
	assert.Equal(t, 0.0, *closed.DiscountServicesPct)

	summary, err := svc.ReceiptSummary(closed)
	require.NoError(t, err)
	assert.Equal(t, 100.00, summary.TotalParts)
	assert.Equal(t, 10.00, summary.DiscountParts)
	assert.Equal(t, 90.00, summary.FinalTotal, "Receipt must show the charged amount, not the gross")
}

func TestFinalizeIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)
	_, err = svc.AddPartLine(order.ID, f.PartA.ID, 1)
	require.NoError(t, err)

	closed, _, err := svc.Finalize(order.ID, "Card Credit - 3x", 0, 0)
	require.NoError(t, err)

	_, _, err = svc.Finalize(order.ID, "Cash", 0, 0)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr, "Second finalize must fail")

	// The row must be untouched by the failed second attempt.
	after, err := svc.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStatusClosed, after.Status)
	assert.Equal(t, *closed.PaymentMethod, *after.PaymentMethod)
	assert.True(t, closed.ClosedAt.Equal(*after.ClosedAt), "ClosedAt must not change")

	// And stock must not be decremented twice.
	assert.Equal(t, -1.0, stockOf(t, db, f.PartA.ID))

	// A closed order rejects edits and line changes.
	newTotal := 5.0
	_, err = svc.Update(order.ID, UpdateWorkOrderInput{Total: &newTotal})
	require.ErrorAs(t, err, &validationErr)
	_, err = svc.AddPartLine(order.ID, f.PartA.ID, 1)
	require.ErrorAs(t, err, &validationErr)
}

func TestFinalizeAtomicStockAdjustment(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	seedStock(t, db, f.PartA.ID, 10)
	seedStock(t, db, f.PartB.ID, 2)

	order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)
	_, err = svc.AddPartLine(order.ID, f.PartA.ID, 3)
	require.NoError(t, err)
	_, err = svc.AddPartLine(order.ID, f.PartB.ID, 5)
	require.NoError(t, err)

	_, _, err = svc.Finalize(order.ID, "Cash", 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 7.0, stockOf(t, db, f.PartA.ID))
	assert.Equal(t, -3.0, stockOf(t, db, f.PartB.ID), "Negative balance is allowed and persisted")
}

func TestFinalizeRollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	seedStock(t, db, f.PartA.ID, 10)
	seedStock(t, db, f.PartB.ID, 2)

	order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)
	_, err = svc.AddPartLine(order.ID, f.PartA.ID, 3)
	require.NoError(t, err)
	_, err = svc.AddPartLine(order.ID, f.PartB.ID, 5)
	require.NoError(t, err)

	// Force the second stock write to fail so the first must be rolled back.
	trigger := fmt.Sprintf(
		"CREATE TRIGGER force_stock_failure BEFORE UPDATE ON inventory_records WHEN NEW.part_id = %d BEGIN SELECT RAISE(ABORT, 'forced failure'); END;",
		f.PartB.ID,
	)
	require.NoError(t, db.Exec(trigger).Error)

	_, _, err = svc.Finalize(order.ID, "Cash", 0, 0)
	require.Error(t, err, "Finalize must surface the storage failure")

	assert.Equal(t, 10.0, stockOf(t, db, f.PartA.ID), "Partial decrement must be rolled back")
	assert.Equal(t, 2.0, stockOf(t, db, f.PartB.ID))

	after, err := svc.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStatusOpen, after.Status, "Order must remain open after a failed finalize")
	assert.Nil(t, after.ClosedAt)
	assert.Nil(t, after.PaymentMethod)

	// With the fault cleared, finalize succeeds and adjusts everything.
	require.NoError(t, db.Exec("DROP TRIGGER force_stock_failure").Error)
	_, _, err = svc.Finalize(order.ID, "Cash", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 7.0, stockOf(t, db, f.PartA.ID))
	assert.Equal(t, -3.0, stockOf(t, db, f.PartB.ID))
}

func TestDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)
	_, err = svc.AddPartLine(order.ID, f.PartA.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddPartLine(order.ID, f.PartB.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddServiceLine(order.ID, f.Service.ID, 1)
	require.NoError(t, err)

	removed, err := svc.Delete(order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed, "All part and service lines are cascaded")

	_, err = svc.Get(order.ID)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	var lineCount int64
	db.Model(&models.WorkOrderPart{}).Where("work_order_id = ?", order.ID).Count(&lineCount)
	assert.Zero(t, lineCount)
	db.Model(&models.WorkOrderService{}).Where("work_order_id = ?", order.ID).Count(&lineCount)
	assert.Zero(t, lineCount)
}

func TestDeleteDoesNotRestock(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	seedStock(t, db, f.PartA.ID, 10)

	order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)
	_, err = svc.AddPartLine(order.ID, f.PartA.ID, 4)
	require.NoError(t, err)
	_, _, err = svc.Finalize(order.ID, "Cash", 0, 0)
	require.NoError(t, err)
	require.Equal(t, 6.0, stockOf(t, db, f.PartA.ID))

	_, err = svc.Delete(order.ID)
	require.NoError(t, err)

	assert.Equal(t, 6.0, stockOf(t, db, f.PartA.ID), "Deleting a finalized order must not reverse stock movements")
}

func TestFinalizeRecordsMovement(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewWorkOrderService(db)

	order, err := svc.Create(CreateWorkOrderInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)
	_, _, err = svc.Finalize(order.ID, "Pix", 0, 0)
	require.NoError(t, err)

	var entries []models.MovementLog
	require.NoError(t, db.Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, models.MovementActionCreated, entries[0].Action)
	assert.Equal(t, models.MovementActionClosed, entries[1].Action)
	assert.Equal(t, order.Number, entries[1].OrderNumber)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, round2(1.2349))
	assert.Equal(t, 1.24, round2(1.236))
	assert.Equal(t, 190.00, round2(190.0000001))
	assert.Equal(t, -0.5, round2(-0.504))
}
