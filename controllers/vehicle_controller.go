package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafael-duarte/oficina-api/config"
	"github.com/rafael-duarte/oficina-api/models"
)

// VehicleRequest represents the request body for creating or updating a vehicle
type VehicleRequest struct {
	Plate    string `json:"plate" binding:"required"`
	Model    string `json:"model" binding:"required"`
	Year     int    `json:"year"`
	Color    string `json:"color"`
	ClientID uint   `json:"client_id" binding:"required"`
	BrandID  uint   `json:"brand_id" binding:"required"`
}

// CreateVehicle handles POST /api/v1/vehicles
func CreateVehicle(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	db := config.GetDB()
	var client models.Client
	if err := db.First(&client, req.ClientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Client not found",
			},
		})
		return
	}
	var brand models.Brand
	if err := db.First(&brand, req.BrandID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Brand not found",
			},
		})
		return
	}

	vehicle := models.Vehicle{
		Plate:    req.Plate,
		Model:    req.Model,
		Year:     req.Year,
		Color:    req.Color,
		ClientID: req.ClientID,
		BrandID:  req.BrandID,
	}
	if err := db.Create(&vehicle).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "A vehicle with this plate already exists",
			},
		})
		return
	}

	if err := db.Preload("Client").Preload("Brand").First(&vehicle, vehicle.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load vehicle details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    vehicle,
	})
}

// ListVehicles handles GET /api/v1/vehicles?client_id=
func ListVehicles(c *gin.Context) {
	query := config.GetDB().Preload("Client").Preload("Brand").Order("plate ASC")
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	var vehicles []models.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch vehicles",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    vehicles,
	})
}

// GetVehicle handles GET /api/v1/vehicles/:id
func GetVehicle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var vehicle models.Vehicle
	if err := config.GetDB().Preload("Client").Preload("Brand").First(&vehicle, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Vehicle not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    vehicle,
	})
}

// UpdateVehicle handles PUT /api/v1/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var vehicle models.Vehicle
	if err := db.First(&vehicle, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Vehicle not found",
			},
		})
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	vehicle.Plate = req.Plate
	vehicle.Model = req.Model
	vehicle.Year = req.Year
	vehicle.Color = req.Color
	vehicle.ClientID = req.ClientID
	vehicle.BrandID = req.BrandID
	if err := db.Save(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update vehicle",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    vehicle,
	})
}

// DeleteVehicle handles DELETE /api/v1/vehicles/:id
func DeleteVehicle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var vehicle models.Vehicle
	if err := db.First(&vehicle, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Vehicle not found",
			},
		})
		return
	}

	// Vehicles referenced by work orders cannot be removed
	var orderCount int64
	if err := db.Model(&models.WorkOrder{}).Where("vehicle_id = ?", id).Count(&orderCount).Error; err == nil && orderCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "Vehicle has work orders and cannot be deleted",
			},
		})
		return
	}

	if err := db.Delete(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete vehicle",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}
