package services

import (
	"testing"

	"github.com/rafael-duarte/oficina-api/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with all models migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Brand{},
		&models.Vehicle{},
		&models.Mechanic{},
		&models.Part{},
		&models.Service{},
		&models.WorkOrder{},
		&models.WorkOrderPart{},
		&models.WorkOrderService{},
		&models.Quote{},
		&models.QuotePart{},
		&models.QuoteService{},
		&models.InventoryRecord{},
		&models.MovementLog{},
	)
	require.NoError(t, err, "Failed to migrate models")

	return db
}

// testFixtures holds the catalog and registry rows most tests need.
type testFixtures struct {
	Brand    models.Brand
	Client   models.Client
	Vehicle  models.Vehicle
	Mechanic models.Mechanic
	PartA    models.Part
	PartB    models.Part
	Service  models.Service
	User     models.User
}

// seedFixtures inserts a minimal registry and catalog:
// PartA at 50.00, PartB at 20.00, one service with final value 100.00.
func seedFixtures(t *testing.T, db *gorm.DB) testFixtures {
	t.Helper()

	f := testFixtures{}

	f.Brand = models.Brand{Name: "Bosch"}
	require.NoError(t, db.Create(&f.Brand).Error)

	f.Client = models.Client{Name: "Maria Souza", Phone: "11 99999-0001"}
	require.NoError(t, db.Create(&f.Client).Error)

	f.Vehicle = models.Vehicle{
		Plate:    "ABC1D23",
		Model:    "Gol 1.0",
		Year:     2018,
		ClientID: f.Client.ID,
		BrandID:  f.Brand.ID,
	}
	require.NoError(t, db.Create(&f.Vehicle).Error)

	f.Mechanic = models.Mechanic{Name: "Carlos Pereira"}
	require.NoError(t, db.Create(&f.Mechanic).Error)

	f.PartA = models.Part{Description: "Oil filter", Price: 50.00, BrandID: f.Brand.ID}
	require.NoError(t, db.Create(&f.PartA).Error)

	f.PartB = models.Part{Description: "Brake pad", Price: 20.00, BrandID: f.Brand.ID}
	require.NoError(t, db.Create(&f.PartB).Error)

	f.Service = models.Service{
		Description:   "Oil change",
		HourlyRate:    100.00,
		DurationHours: 1,
		FinalValue:    100.00,
	}
	require.NoError(t, db.Create(&f.Service).Error)

	f.User = models.User{Auth0ID: "auth0|operator1", Name: "Ana Lima", Email: "ana@oficina.test", Role: "operator"}
	require.NoError(t, db.Create(&f.User).Error)

	return f
}

// seedStock sets a part's inventory record to an exact quantity.
func seedStock(t *testing.T, db *gorm.DB, partID uint, quantity float64) {
	t.Helper()
	require.NoError(t, adjustStock(db, partID, quantity))
}

// stockOf reads a part's current inventory quantity.
func stockOf(t *testing.T, db *gorm.DB, partID uint) float64 {
	t.Helper()
	var record models.InventoryRecord
	require.NoError(t, db.Where("part_id = ?", partID).First(&record).Error)
	return record.Quantity
}
