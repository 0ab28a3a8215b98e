package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rafael-duarte/oficina-api/config"
	"github.com/rafael-duarte/oficina-api/controllers"
	"github.com/rafael-duarte/oficina-api/middleware"
	"github.com/rafael-duarte/oficina-api/models"
	"github.com/rafael-duarte/oficina-api/services"
)

func main() {
	log.Println("Starting Oficina API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
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
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize S3-backed photo storage
	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitPhotoService(s3Service)

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with CORS, auth, and all API routes.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	auth := middleware.EnsureValidToken(cfg)

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// User profile (Auth0-backed)
		v1.POST("/users", auth, controllers.CreateUser)
		v1.GET("/users/me", auth, controllers.GetCurrentUser)

		// Registry
		v1.POST("/clients", auth, controllers.CreateClient)
		v1.GET("/clients", controllers.ListClients)
		v1.GET("/clients/:id", controllers.GetClient)
		v1.PUT("/clients/:id", auth, controllers.UpdateClient)
		v1.DELETE("/clients/:id", auth, controllers.DeleteClient)

		v1.POST("/vehicles", auth, controllers.CreateVehicle)
		v1.GET("/vehicles", controllers.ListVehicles)
		v1.GET("/vehicles/:id", controllers.GetVehicle)
		v1.PUT("/vehicles/:id", auth, controllers.UpdateVehicle)
		v1.DELETE("/vehicles/:id", auth, controllers.DeleteVehicle)

		v1.POST("/mechanics", auth, controllers.CreateMechanic)
		v1.GET("/mechanics", controllers.ListMechanics)
		v1.GET("/mechanics/:id", controllers.GetMechanic)
		v1.PUT("/mechanics/:id", auth, controllers.UpdateMechanic)
		v1.DELETE("/mechanics/:id", auth, controllers.DeleteMechanic)

		// Catalog
		v1.POST("/brands", auth, controllers.CreateBrand)
		v1.GET("/brands", controllers.ListBrands)
		v1.PUT("/brands/:id", auth, controllers.UpdateBrand)
		v1.DELETE("/brands/:id", auth, controllers.DeleteBrand)

		v1.POST("/parts", auth, controllers.CreatePart)
		v1.GET("/parts", controllers.ListParts)
		v1.GET("/parts/:id", controllers.GetPart)
		v1.PUT("/parts/:id", auth, controllers.UpdatePart)
		v1.DELETE("/parts/:id", auth, controllers.DeletePart)

		v1.POST("/services", auth, controllers.CreateService)
		v1.GET("/services", controllers.ListServices)
		v1.GET("/services/:id", controllers.GetService)
		v1.PUT("/services/:id", auth, controllers.UpdateService)
		v1.DELETE("/services/:id", auth, controllers.DeleteService)

		// Quotes
		v1.POST("/quotes", auth, controllers.CreateQuote)
		v1.GET("/quotes", controllers.ListQuotes)
		v1.GET("/quotes/:id", controllers.GetQuote)
		v1.PUT("/quotes/:id", auth, controllers.UpdateQuote)
		v1.GET("/quotes/:id/total", controllers.GetQuoteTotal)
		v1.DELETE("/quotes/:id", auth, controllers.DeleteQuote)
		v1.POST("/quotes/:id/parts", auth, controllers.AddQuotePart)
		v1.DELETE("/quotes/:id/parts/:partId", auth, controllers.RemoveQuotePart)
		v1.POST("/quotes/:id/services", auth, controllers.AddQuoteService)
		v1.DELETE("/quotes/:id/services/:serviceId", auth, controllers.RemoveQuoteService)

		// Work orders
		v1.POST("/work-orders", auth, controllers.CreateWorkOrder)
		v1.GET("/work-orders", controllers.ListWorkOrders)
		v1.GET("/work-orders/:id", controllers.GetWorkOrder)
		v1.PUT("/work-orders/:id", auth, controllers.UpdateWorkOrder)
		v1.DELETE("/work-orders/:id", auth, controllers.DeleteWorkOrder)
		v1.GET("/work-orders/:id/lines", controllers.ListWorkOrderLines)
		v1.POST("/work-orders/:id/parts", auth, controllers.AddWorkOrderPart)
		v1.DELETE("/work-orders/:id/parts/:partId", auth, controllers.RemoveWorkOrderPart)
		v1.POST("/work-orders/:id/services", auth, controllers.AddWorkOrderService)
		v1.DELETE("/work-orders/:id/services/:serviceId", auth, controllers.RemoveWorkOrderService)
		v1.POST("/work-orders/:id/finalize", auth, controllers.FinalizeWorkOrder)
		v1.GET("/work-orders/:id/receipt", controllers.GetWorkOrderReceipt)
		v1.POST("/work-orders/:id/photo", auth, controllers.UploadWorkOrderPhoto)
		v1.GET("/work-orders/:id/photo", controllers.GetWorkOrderPhoto)

		// Inventory
		v1.GET("/inventory", controllers.ListInventory)
		v1.GET("/inventory/:partId", controllers.GetPartInventory)
		v1.POST("/inventory/receive", auth, controllers.ReceiveStock)

		// Reports
		v1.GET("/reports/movements", controllers.ListMovements)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Oficina API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
