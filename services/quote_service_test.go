package services

import (
	"testing"

	"github.com/rafael-duarte/oficina-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuote(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewQuoteService(db)

	quote, err := svc.Create(CreateQuoteInput{
		VehicleID:  f.Vehicle.ID,
		MechanicID: f.Mechanic.ID,
		UserID:     "admin",
		Note:       " ",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, quote.Number)
	assert.Nil(t, quote.UserID, "Admin sentinel normalizes to anonymous")
	assert.Nil(t, quote.Note)

	second, err := svc.Create(CreateQuoteInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number, "Quotes have their own sequence")
}

func TestUpdateQuote(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewQuoteService(db)

	quote, err := svc.Create(CreateQuoteInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID, Note: "first pass"})
	require.NoError(t, err)

	newTotal := 250.0
	blankNote := "   "
	updated, err := svc.Update(quote.ID, UpdateQuoteInput{Total: &newTotal, Note: &blankNote})
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.Total)
	assert.Nil(t, updated.Note, "Blank note normalizes to NULL")
	assert.Equal(t, quote.VehicleID, updated.VehicleID, "Omitted fields stay untouched")

	badVehicle := uint(99999)
	var notFoundErr *NotFoundError
	_, err = svc.Update(quote.ID, UpdateQuoteInput{VehicleID: &badVehicle})
	require.ErrorAs(t, err, &notFoundErr, "Unknown vehicle reference must be a not-found error")

	negative := -1.0
	var validationErr *ValidationError
	_, err = svc.Update(quote.ID, UpdateQuoteInput{Total: &negative})
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Update(99999, UpdateQuoteInput{Total: &newTotal})
	require.ErrorAs(t, err, &notFoundErr)
}

func TestQuoteTotalsAndNoInventoryEffect(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewQuoteService(db)

	quote, err := svc.Create(CreateQuoteInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)

	_, err = svc.AddPartLine(quote.ID, f.PartA.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddServiceLine(quote.ID, f.Service.ID, 0.5)
	require.NoError(t, err)

	totalParts, totalServices, err := svc.ComputeTotals(quote.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.00, totalParts)
	assert.Equal(t, 50.00, totalServices)

	var count int64
	db.Model(&models.InventoryRecord{}).Count(&count)
	assert.Zero(t, count, "Quotes never touch inventory")
}

func TestQuoteLineValidation(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewQuoteService(db)

	quote, err := svc.Create(CreateQuoteInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)

	var validationErr *ValidationError
	_, err = svc.AddPartLine(quote.ID, f.PartA.ID, 0)
	require.ErrorAs(t, err, &validationErr)

	var notFoundErr *NotFoundError
	err = svc.RemovePartLine(quote.ID, f.PartA.ID)
	require.ErrorAs(t, err, &notFoundErr, "Removing an absent line must be a not-found error")
}

func TestQuoteDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixtures(t, db)
	svc := NewQuoteService(db)

	quote, err := svc.Create(CreateQuoteInput{VehicleID: f.Vehicle.ID, MechanicID: f.Mechanic.ID})
	require.NoError(t, err)
	_, err = svc.AddPartLine(quote.ID, f.PartA.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddServiceLine(quote.ID, f.Service.ID, 1)
	require.NoError(t, err)

	removed, err := svc.Delete(quote.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	var lineCount int64
	db.Model(&models.QuotePart{}).Where("quote_id = ?", quote.ID).Count(&lineCount)
	assert.Zero(t, lineCount)
}
