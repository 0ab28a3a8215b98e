package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafael-duarte/oficina-api/config"
	"github.com/rafael-duarte/oficina-api/models"
)

// MechanicRequest represents the request body for creating or updating a mechanic
type MechanicRequest struct {
	Name     string `json:"name" binding:"required"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
}

// CreateMechanic handles POST /api/v1/mechanics
func CreateMechanic(c *gin.Context) {
	var req MechanicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	mechanic := models.Mechanic{
		Name:     req.Name,
		Document: req.Document,
		Phone:    req.Phone,
	}
	if err := config.GetDB().Create(&mechanic).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create mechanic",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    mechanic,
	})
}

// ListMechanics handles GET /api/v1/mechanics
func ListMechanics(c *gin.Context) {
	var mechanics []models.Mechanic
	if err := config.GetDB().Order("name ASC").Find(&mechanics).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch mechanics",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    mechanics,
	})
}

// GetMechanic handles GET /api/v1/mechanics/:id
func GetMechanic(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var mechanic models.Mechanic
	if err := config.GetDB().First(&mechanic, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Mechanic not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    mechanic,
	})
}

// UpdateMechanic handles PUT /api/v1/mechanics/:id
func UpdateMechanic(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var mechanic models.Mechanic
	if err := db.First(&mechanic, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Mechanic not found",
			},
		})
		return
	}

	var req MechanicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	mechanic.Name = req.Name
	mechanic.Document = req.Document
	mechanic.Phone = req.Phone
	if err := db.Save(&mechanic).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update mechanic",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    mechanic,
	})
}

// DeleteMechanic handles DELETE /api/v1/mechanics/:id
func DeleteMechanic(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var mechanic models.Mechanic
	if err := db.First(&mechanic, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Mechanic not found",
			},
		})
		return
	}

	// Mechanics assigned to work orders cannot be removed
	var orderCount int64
	if err := db.Model(&models.WorkOrder{}).Where("mechanic_id = ?", id).Count(&orderCount).Error; err == nil && orderCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "Mechanic is assigned to work orders and cannot be deleted",
			},
		})
		return
	}

	if err := db.Delete(&mechanic).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete mechanic",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}
