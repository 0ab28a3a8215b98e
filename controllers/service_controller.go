package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafael-duarte/oficina-api/config"
	"github.com/rafael-duarte/oficina-api/models"
)

// ServiceRequest represents the request body for creating or updating a
// catalog service. FinalValue is derived (hourly rate x duration) at write
// time and persisted; reads never recompute it.
type ServiceRequest struct {
	Description   string   `json:"description" binding:"required"`
	HourlyRate    *float64 `json:"hourly_rate" binding:"required"`
	DurationHours *float64 `json:"duration_hours" binding:"required"`
	COS           string   `json:"cos"`
}

func (r *ServiceRequest) validateRates(c *gin.Context) bool {
	if *r.HourlyRate < 0 || *r.DurationHours < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "hourly_rate and duration_hours must not be negative",
			},
		})
		return false
	}
	return true
}

// CreateService handles POST /api/v1/services
func CreateService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if !req.validateRates(c) {
		return
	}

	service := models.Service{
		Description:   req.Description,
		HourlyRate:    *req.HourlyRate,
		DurationHours: *req.DurationHours,
		FinalValue:    *req.HourlyRate * *req.DurationHours,
		COS:           req.COS,
	}
	if err := config.GetDB().Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create service",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    service,
	})
}

// ListServices handles GET /api/v1/services
func ListServices(c *gin.Context) {
	var servicesList []models.Service
	if err := config.GetDB().Order("description ASC").Find(&servicesList).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch services",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    servicesList,
	})
}

// GetService handles GET /api/v1/services/:id
func GetService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var service models.Service
	if err := config.GetDB().First(&service, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// UpdateService handles PUT /api/v1/services/:id
func UpdateService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if !req.validateRates(c) {
		return
	}

	service.Description = req.Description
	service.HourlyRate = *req.HourlyRate
	service.DurationHours = *req.DurationHours
	service.FinalValue = *req.HourlyRate * *req.DurationHours
	service.COS = req.COS
	if err := db.Save(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update service",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// DeleteService handles DELETE /api/v1/services/:id
func DeleteService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Service not found",
			},
		})
		return
	}

	// Services referenced by order lines cannot be removed
	var lineCount int64
	if err := db.Model(&models.WorkOrderService{}).Where("service_id = ?", id).Count(&lineCount).Error; err == nil && lineCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "Service is referenced by work orders and cannot be deleted",
			},
		})
		return
	}

	if err := db.Delete(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete service",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}
